package gormdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/domain"
)

// TokenStore implements ports.TokenStore with the personal_access_tokens table.
type TokenStore struct {
	db *gorm.DB
}

func NewTokenStore(db *gorm.DB) *TokenStore {
	return &TokenStore{db: db}
}

func (s *TokenStore) Save(ctx context.Context, t *domain.AccessToken) error {
	if err := s.db.WithContext(ctx).Create(newTokenModel(t)).Error; err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

func (s *TokenStore) Find(ctx context.Context, id string) (*domain.AccessToken, error) {
	var m tokenModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("find token: %w", err)
	}
	return m.toDomain(), nil
}

func (s *TokenStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&tokenModel{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTokenNotFound
	}
	return nil
}

// PruneExpired removes tokens that expired before now and reports how many
// were removed. Tokens without an expiry are kept.
func (s *TokenStore) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at > ? AND expires_at < ?", time.Time{}, now.UTC()).
		Delete(&tokenModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("prune tokens: %w", res.Error)
	}
	return res.RowsAffected, nil
}
