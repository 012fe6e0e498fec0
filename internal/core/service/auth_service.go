package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/domain"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/ports"
)

// dummyHash is compared against when the email is unknown, so both login
// failure paths cost one bcrypt comparison.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3ZTiyZXW0B7q/K1ORBvG1Vu"

// AuthService implements registration, login, logout and token authentication.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens *TokenIssuer
	log    zerolog.Logger
	now    func() time.Time
}

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, tokens *TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a user and issues its first token. Either both happen or
// neither does: a user whose token cannot be issued is deleted again.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, "", fmt.Errorf("%w: %w", domain.ErrRegistrationFailed, domain.ErrEmailTaken)
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", fmt.Errorf("%w: %w", domain.ErrRegistrationFailed, err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("%w: hash password: %w", domain.ErrRegistrationFailed, err)
	}

	now := s.now()
	created, err := s.users.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", domain.ErrRegistrationFailed, err)
	}

	token, err := s.tokens.Issue(ctx, created)
	if err != nil {
		if delErr := s.users.Delete(ctx, created.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("user_id", created.ID).Msg("failed to roll back user after token issue failure")
		}
		return nil, "", fmt.Errorf("%w: %w", domain.ErrRegistrationFailed, err)
	}

	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return created, token, nil
}

// Login verifies the credentials and issues a fresh token. An unknown email and
// a wrong password both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Verify(dummyHash, password)
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout destroys exactly the token that authenticated principal.
func (s *AuthService) Logout(ctx context.Context, principal *domain.Principal) error {
	if principal == nil || principal.TokenID == "" {
		return fmt.Errorf("%w: %w", domain.ErrLogoutFailed, domain.ErrTokenNotFound)
	}
	if err := s.tokens.Revoke(ctx, principal.TokenID); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrLogoutFailed, err)
	}
	return nil
}

// Authenticate resolves a bearer token to the principal it belongs to.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	record, err := s.tokens.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
		}
		return nil, err
	}
	return &domain.Principal{User: user, TokenID: record.ID}, nil
}

// EnsureUser creates the user unless one with email already exists. Existing
// users are returned unchanged. The bool reports whether a user was created.
func (s *AuthService) EnsureUser(ctx context.Context, name, email, password string) (*domain.User, bool, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}
	now := s.now()
	created, err := s.users.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}
