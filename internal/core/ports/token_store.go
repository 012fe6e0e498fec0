package ports

import (
	"context"

	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/domain"
)

// TokenStore keeps the server-side record of issued access tokens.
// Find and Delete return domain.ErrTokenNotFound for unknown ids.
type TokenStore interface {
	Save(ctx context.Context, token *domain.AccessToken) error
	Find(ctx context.Context, id string) (*domain.AccessToken, error)
	Delete(ctx context.Context, id string) error
}

// PasswordHasher is the one-way password hash used by the credential store.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}
