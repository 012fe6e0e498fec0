package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/domain"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// TokenIssuer creates and resolves bearer tokens. A token is an HS256 JWT whose
// "jti" names an AccessToken record in the store; a token whose record is gone
// is rejected even if its signature and expiry are still valid.
type TokenIssuer struct {
	store  ports.TokenStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(store ports.TokenStore, secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenIssuer{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Issue signs a fresh token for user and records it in the store.
func (i *TokenIssuer) Issue(ctx context.Context, user *domain.User) (string, error) {
	now := i.now()
	record := &domain.AccessToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      domain.DefaultTokenName,
		CreatedAt: now,
		ExpiresAt: now.Add(i.ttl),
	}

	claims := jwt.RegisteredClaims{
		ID:        record.ID,
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(record.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(record.ExpiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	if err := i.store.Save(ctx, record); err != nil {
		return "", fmt.Errorf("save token: %w", err)
	}
	return signed, nil
}

// Resolve verifies raw and returns its stored record. Every rejection wraps
// domain.ErrUnauthenticated; store failures other than a missing record are
// returned as they are.
func (i *TokenIssuer) Resolve(ctx context.Context, raw string) (*domain.AccessToken, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, fmt.Errorf("%w: token missing jti or sub", domain.ErrUnauthenticated)
	}

	record, err := i.store.Find(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
		}
		return nil, err
	}
	if record.UserID != claims.Subject {
		return nil, fmt.Errorf("%w: token subject mismatch", domain.ErrUnauthenticated)
	}
	if record.Expired(i.now()) {
		return nil, fmt.Errorf("%w: token expired", domain.ErrUnauthenticated)
	}
	return record, nil
}

// Revoke deletes the record of token id.
func (i *TokenIssuer) Revoke(ctx context.Context, id string) error {
	return i.store.Delete(ctx, id)
}
