package ports

import (
	"context"

	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/domain"
)

// StudentFilter carries the already-normalized list parameters.
type StudentFilter struct {
	Search string // optional: case-insensitive substring of name or email
	Offset int
	Limit  int
}

// StudentRepository defines persistence operations for students.
//
// Find, Update and Delete return domain.ErrStudentNotFound for unknown ids.
// Insert and Update return domain.ErrEmailTaken on a unique email violation.
type StudentRepository interface {
	Find(ctx context.Context, id string) (*domain.Student, error)
	Insert(ctx context.Context, s *domain.Student) error
	Update(ctx context.Context, id string, patch domain.StudentPatch) (*domain.Student, error)
	Delete(ctx context.Context, id string) error
	// Paginate returns one page ordered by created_at desc and the total match count.
	Paginate(ctx context.Context, filter StudentFilter) ([]*domain.Student, int64, error)
}
