package ports

import (
	"context"

	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/domain"
)

// UserRepository defines the persistence operations of the credential store.
//
// FindByEmail and FindByID return domain.ErrUserNotFound when nothing matches.
// Create returns domain.ErrEmailTaken when the email is already registered.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Delete exists only to undo a registration whose token could not be issued.
	Delete(ctx context.Context, id string) error
}
