package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/domain"
)

type authFixture struct {
	users  *stubUserRepo
	tokens *stubTokenStore
	svc    *AuthService
}

func newAuthFixture() *authFixture {
	users := newStubUserRepo()
	tokens := newStubTokenStore()
	issuer := NewTokenIssuer(tokens, "secret", time.Hour)
	return &authFixture{
		users:  users,
		tokens: tokens,
		svc:    NewAuthService(users, testHasher, issuer, discardLogger),
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newAuthFixture()

	user, token, err := f.svc.Register(context.Background(), "Alice", "alice@example.com", "pass1234")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user == nil || user.ID == "" {
		t.Fatalf("expected user with id, got %+v", user)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user.PasswordHash == "pass1234" {
		t.Fatalf("expected password to be hashed")
	}
	if !testHasher.Verify(user.PasswordHash, "pass1234") {
		t.Fatalf("stored hash does not match password")
	}

	principal, err := f.svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("token from Register does not authenticate: %v", err)
	}
	if principal.User.ID != user.ID {
		t.Fatalf("principal bound to wrong user: %s", principal.User.ID)
	}
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	if _, _, err := f.svc.Register(ctx, "Carol", "carol@example.com", "s3cret!!"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, token, err := f.svc.Login(ctx, "carol@example.com", "s3cret!!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.Name != "Carol" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Subject != user.ID {
		t.Fatalf("expected sub %s, got %s", user.ID, claims.Subject)
	}
	if _, err := f.tokens.Find(ctx, claims.ID); err != nil {
		t.Fatalf("jti %s not recorded in store: %v", claims.ID, err)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	first, _, err := f.svc.Register(ctx, "Bob", "bob@example.com", "password1")
	if err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, _, err = f.svc.Register(ctx, "Bobby", "bob@example.com", "password2")
	if !errors.Is(err, domain.ErrRegistrationFailed) {
		t.Fatalf("expected ErrRegistrationFailed, got %v", err)
	}
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken cause, got %v", err)
	}

	stored, err := f.users.FindByEmail(ctx, "bob@example.com")
	if err != nil || stored.ID != first.ID || stored.Name != "Bob" {
		t.Fatalf("first user changed: %+v, %v", stored, err)
	}
	if _, _, err := f.svc.Login(ctx, "bob@example.com", "password1"); err != nil {
		t.Fatalf("first user can no longer log in: %v", err)
	}
}

func TestAuthService_Register_StoreFailure(t *testing.T) {
	f := newAuthFixture()
	f.users.createErr = errors.New("connection refused")

	_, _, err := f.svc.Register(context.Background(), "Dan", "dan@example.com", "password1")
	if !errors.Is(err, domain.ErrRegistrationFailed) {
		t.Fatalf("expected ErrRegistrationFailed, got %v", err)
	}
	if errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("store failure must not look like a duplicate: %v", err)
	}
}

func TestAuthService_Register_TokenFailureRollsBackUser(t *testing.T) {
	f := newAuthFixture()
	f.tokens.saveErr = errors.New("token store down")

	_, _, err := f.svc.Register(context.Background(), "Eve", "eve@example.com", "password1")
	if !errors.Is(err, domain.ErrRegistrationFailed) {
		t.Fatalf("expected ErrRegistrationFailed, got %v", err)
	}
	if len(f.users.users) != 0 {
		t.Fatalf("expected user to be rolled back, repo has %d users", len(f.users.users))
	}
	if len(f.users.deleted) != 1 {
		t.Fatalf("expected one compensating delete, got %d", len(f.users.deleted))
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	if _, _, err := f.svc.Register(ctx, "Dave", "dave@example.com", "goodpass"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	before := len(f.tokens.tokens)

	_, _, wrongPassword := f.svc.Login(ctx, "dave@example.com", "badpass1")
	_, _, unknownEmail := f.svc.Login(ctx, "ghost@example.com", "goodpass")

	if wrongPassword != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPassword)
	}
	if unknownEmail != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("messages differ: %q vs %q", wrongPassword, unknownEmail)
	}
	if len(f.tokens.tokens) != before {
		t.Fatalf("failed login issued a token")
	}
}

func TestAuthService_Login_StoreError(t *testing.T) {
	f := newAuthFixture()
	f.users.findErr = errors.New("db down")

	_, _, err := f.svc.Login(context.Background(), "x@example.com", "whatever")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected raw store error, got %v", err)
	}
}

func TestAuthService_Logout_DestroysOnlyCurrentToken(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	if _, _, err := f.svc.Register(ctx, "Fay", "fay@example.com", "password1"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, phone, err := f.svc.Login(ctx, "fay@example.com", "password1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	_, laptop, err := f.svc.Login(ctx, "fay@example.com", "password1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	principal, err := f.svc.Authenticate(ctx, phone)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if err := f.svc.Logout(ctx, principal); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	if _, err := f.svc.Authenticate(ctx, phone); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected logged-out token to be rejected, got %v", err)
	}
	if _, err := f.svc.Authenticate(ctx, laptop); err != nil {
		t.Fatalf("other session was destroyed: %v", err)
	}
}

func TestAuthService_Logout_Failures(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	if err := f.svc.Logout(ctx, nil); !errors.Is(err, domain.ErrLogoutFailed) {
		t.Fatalf("expected ErrLogoutFailed for nil principal, got %v", err)
	}
	if err := f.svc.Logout(ctx, &domain.Principal{TokenID: "missing"}); !errors.Is(err, domain.ErrLogoutFailed) {
		t.Fatalf("expected ErrLogoutFailed for unknown token, got %v", err)
	}

	f.tokens.deleteErr = errors.New("store down")
	if err := f.svc.Logout(ctx, &domain.Principal{TokenID: "any"}); !errors.Is(err, domain.ErrLogoutFailed) {
		t.Fatalf("expected ErrLogoutFailed for store error, got %v", err)
	}
}

func TestAuthService_Authenticate_Rejects(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	user, _, err := f.svc.Register(ctx, "Gus", "gus@example.com", "password1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	foreign, err := NewTokenIssuer(newStubTokenStore(), "other-secret", time.Hour).Issue(ctx, user)
	if err != nil {
		t.Fatalf("issue foreign token: %v", err)
	}

	expiredIssuer := NewTokenIssuer(f.tokens, "secret", time.Hour)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredIssuer.Issue(ctx, user)
	if err != nil {
		t.Fatalf("issue expired token: %v", err)
	}

	for name, token := range map[string]string{
		"empty":         "",
		"garbage":       "not-a-token",
		"wrong secret":  foreign,
		"expired token": expired,
	} {
		if _, err := f.svc.Authenticate(ctx, token); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Errorf("%s: expected ErrUnauthenticated, got %v", name, err)
		}
	}
}

func TestAuthService_Authenticate_UserGone(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	user, token, err := f.svc.Register(ctx, "Hal", "hal@example.com", "password1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	delete(f.users.users, user.ID)

	if _, err := f.svc.Authenticate(ctx, token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for orphaned token, got %v", err)
	}
}

func TestAuthService_EnsureUser_Idempotent(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	first, created, err := f.svc.EnsureUser(ctx, "admin", "admin@gmail.com", "11111111")
	if err != nil || !created {
		t.Fatalf("expected user to be created, got created=%v err=%v", created, err)
	}

	second, created, err := f.svc.EnsureUser(ctx, "someone else", "admin@gmail.com", "other-password")
	if err != nil {
		t.Fatalf("second EnsureUser failed: %v", err)
	}
	if created {
		t.Fatalf("expected existing user to be reused")
	}
	if second.ID != first.ID || second.Name != "admin" {
		t.Fatalf("existing user was modified: %+v", second)
	}
	if _, _, err := f.svc.Login(ctx, "admin@gmail.com", "11111111"); err != nil {
		t.Fatalf("seeded user cannot log in: %v", err)
	}
}
