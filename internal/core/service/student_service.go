package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/domain"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/ports"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/pkg/pagination"
)

type StudentService struct {
	repo   ports.StudentRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewStudentService(repo ports.StudentRepository, logger zerolog.Logger) *StudentService {
	return &StudentService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List returns one page of students, newest first, optionally filtered by a
// case-insensitive substring of name or email.
func (s *StudentService) List(ctx context.Context, input ports.ListStudentsInput) (*ports.StudentPage, error) {
	page, perPage := pagination.Normalize(input.Page, input.PerPage)

	items, total, err := s.repo.Paginate(ctx, ports.StudentFilter{
		Search: strings.TrimSpace(input.Search),
		Offset: pagination.Offset(page, perPage),
		Limit:  perPage,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list students")
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalFailed, err)
	}
	if items == nil {
		items = []*domain.Student{}
	}

	return &ports.StudentPage{
		Items:       items,
		Total:       total,
		CurrentPage: page,
		LastPage:    pagination.LastPage(total, perPage),
		PerPage:     perPage,
	}, nil
}

// Create stores a new student with a fresh id and creation timestamp.
func (s *StudentService) Create(ctx context.Context, input ports.StudentInput) (*domain.Student, error) {
	now := s.now()
	student := &domain.Student{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Address:   input.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, student); err != nil {
		s.logger.Error().Err(err).Msg("failed to create student")
		return nil, fmt.Errorf("%w: %w", domain.ErrCreationFailed, err)
	}

	s.logger.Info().Str("student_id", student.ID).Msg("student created")
	return student, nil
}

func (s *StudentService) Get(ctx context.Context, id string) (*domain.Student, error) {
	return s.repo.Find(ctx, id)
}

// Update applies patch to the student. Fields not present in patch keep their value.
func (s *StudentService) Update(ctx context.Context, id string, patch domain.StudentPatch) (*domain.Student, error) {
	if patch.Empty() {
		return s.repo.Find(ctx, id)
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrStudentNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("student_id", id).Msg("failed to update student")
		return nil, fmt.Errorf("%w: %w", domain.ErrUpdateFailed, err)
	}

	s.logger.Info().Str("student_id", id).Msg("student updated")
	return updated, nil
}

func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrStudentNotFound) {
			return err
		}
		s.logger.Error().Err(err).Str("student_id", id).Msg("failed to delete student")
		return fmt.Errorf("%w: %w", domain.ErrDeletionFailed, err)
	}

	s.logger.Info().Str("student_id", id).Msg("student deleted")
	return nil
}
