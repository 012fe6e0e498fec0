package ports

import (
	"context"

	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Logout(ctx context.Context, principal *domain.Principal) error
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
}
