package gormdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/domain"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/ports"
)

// likeEscaper escapes LIKE wildcards with '!' so a search term matches literally.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// StudentRepository implements ports.StudentRepository.
type StudentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) Find(ctx context.Context, id string) (*domain.Student, error) {
	var m studentModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return m.toDomain(), nil
}

func (r *StudentRepository) Insert(ctx context.Context, s *domain.Student) error {
	if err := r.db.WithContext(ctx).Create(newStudentModel(s)).Error; err != nil {
		if isDuplicate(err) && emailHeldByOther(ctx, r.db, &studentModel{}, s.Email, s.ID) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

// Update loads the row, applies patch and saves it in one transaction.
func (r *StudentRepository) Update(ctx context.Context, id string, patch domain.StudentPatch) (*domain.Student, error) {
	var updated *domain.Student
	var email string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m studentModel
		if err := tx.Where("id = ?", id).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrStudentNotFound
			}
			return fmt.Errorf("find student: %w", err)
		}

		s := m.toDomain()
		patch.Apply(s)
		email = s.Email
		next := newStudentModel(s)
		if err := tx.Save(next).Error; err != nil {
			return fmt.Errorf("save student: %w", err)
		}
		updated = next.toDomain()
		return nil
	})
	if err != nil {
		// The failed transaction is rolled back before the lookup runs.
		if isDuplicate(err) && emailHeldByOther(ctx, r.db, &studentModel{}, email, id) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return updated, nil
}

func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&studentModel{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete student: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrStudentNotFound
	}
	return nil
}

// Paginate returns the students matching f, newest first, and the number of
// matches before offset and limit were applied.
func (r *StudentRepository) Paginate(ctx context.Context, f ports.StudentFilter) ([]*domain.Student, int64, error) {
	q := r.db.WithContext(ctx).Model(&studentModel{})
	if f.Search != "" {
		like := "%" + likeEscaper.Replace(r.foldTerm(f.Search)) + "%"
		q = q.Where("LOWER(name) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!'", like, like)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	var rows []studentModel
	if err := q.Order("created_at DESC").Order("id DESC").
		Offset(f.Offset).Limit(f.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	items := make([]*domain.Student, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].toDomain())
	}
	return items, total, nil
}

// foldTerm lowercases a search term the way the database's LOWER does, so a
// term typed exactly as stored always matches. sqlite's built-in LOWER only
// folds ASCII letters.
func (r *StudentRepository) foldTerm(term string) string {
	if r.db.Dialector.Name() == DriverSQLite {
		return asciiLower(term)
	}
	return strings.ToLower(term)
}

func asciiLower(s string) string {
	return strings.Map(func(c rune) rune {
		if 'A' <= c && c <= 'Z' {
			return c + 'a' - 'A'
		}
		return c
	}, s)
}
