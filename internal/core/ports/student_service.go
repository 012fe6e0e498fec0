package ports

import (
	"context"

	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/domain"
)

// StudentInput carries the validated fields of a new student.
type StudentInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// ListStudentsInput carries the raw list parameters; zero values mean "use the default".
type ListStudentsInput struct {
	Page    int
	PerPage int
	Search  string
}

// StudentPage is one page of students plus its position in the whole result.
type StudentPage struct {
	Items       []*domain.Student
	Total       int64
	CurrentPage int
	LastPage    int
	PerPage     int
}

// HasNext reports whether a page follows the current one.
func (p *StudentPage) HasNext() bool { return p.CurrentPage < p.LastPage }

// HasPrev reports whether a page precedes the current one.
func (p *StudentPage) HasPrev() bool { return p.CurrentPage > 1 }

// StudentService defines use-case operations for students.
type StudentService interface {
	List(ctx context.Context, input ListStudentsInput) (*StudentPage, error)
	Create(ctx context.Context, input StudentInput) (*domain.Student, error)
	Get(ctx context.Context, id string) (*domain.Student, error)
	Update(ctx context.Context, id string, patch domain.StudentPatch) (*domain.Student, error)
	Delete(ctx context.Context, id string) error
}
