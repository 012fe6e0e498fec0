package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/domain"
)

// TokenStore keeps access tokens as Redis hashes that expire together with the token.
// Key format: token:<id>
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore creates a TokenStore wrapping the given Redis client.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

func (s *TokenStore) Save(ctx context.Context, t *domain.AccessToken) error {
	key := s.key(t.ID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"user_id", t.UserID,
			"name", t.Name,
			"created_at", t.CreatedAt.UTC().UnixNano(),
			"expires_at", unixNano(t.ExpiresAt),
		)
		if !t.ExpiresAt.IsZero() {
			pipe.ExpireAt(ctx, key, t.ExpiresAt)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *TokenStore) Find(ctx context.Context, id string) (*domain.AccessToken, error) {
	fields, err := s.client.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrTokenNotFound
	}

	createdAt, err := parseUnixNano(fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("token %s created_at: %w", id, err)
	}
	expiresAt, err := parseUnixNano(fields["expires_at"])
	if err != nil {
		return nil, fmt.Errorf("token %s expires_at: %w", id, err)
	}

	return &domain.AccessToken{
		ID:        id,
		UserID:    fields["user_id"],
		Name:      fields["name"],
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *TokenStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	if n == 0 {
		return domain.ErrTokenNotFound
	}
	return nil
}

func (s *TokenStore) key(id string) string {
	return "token:" + id
}

func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UTC().UnixNano()
}

func parseUnixNano(v string) (time.Time, error) {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	if n == 0 {
		return time.Time{}, nil
	}
	return time.Unix(0, n).UTC(), nil
}
