package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/domain"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/ports"
)

var discardLogger = zerolog.Nop()

var testHasher = NewBcryptHasher(bcrypt.MinCost)

// Users

type stubUserRepo struct {
	mu        sync.Mutex
	users     map[string]*domain.User // by id
	findErr   error
	createErr error
	deleted   []string
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	r.deleted = append(r.deleted, id)
	return nil
}

// Tokens

type stubTokenStore struct {
	mu        sync.Mutex
	tokens    map[string]*domain.AccessToken
	saveErr   error
	deleteErr error
}

func newStubTokenStore() *stubTokenStore {
	return &stubTokenStore{tokens: make(map[string]*domain.AccessToken)}
}

func (s *stubTokenStore) Save(_ context.Context, t *domain.AccessToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	clone := *t
	s.tokens[t.ID] = &clone
	return nil
}

func (s *stubTokenStore) Find(_ context.Context, id string) (*domain.AccessToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[id]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	clone := *t
	return &clone, nil
}

func (s *stubTokenStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.tokens[id]; !ok {
		return domain.ErrTokenNotFound
	}
	delete(s.tokens, id)
	return nil
}

// Students

type stubStudentRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Student
	repoErr error // if set, every call returns this error
}

func newStubStudentRepo() *stubStudentRepo {
	return &stubStudentRepo{byID: make(map[string]*domain.Student)}
}

func (r *stubStudentRepo) Find(_ context.Context, id string) (*domain.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.repoErr != nil {
		return nil, r.repoErr
	}
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrStudentNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubStudentRepo) Insert(_ context.Context, s *domain.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.repoErr != nil {
		return r.repoErr
	}
	for _, existing := range r.byID {
		if existing.Email == s.Email {
			return domain.ErrEmailTaken
		}
	}
	clone := *s
	r.byID[s.ID] = &clone
	return nil
}

func (r *stubStudentRepo) Update(_ context.Context, id string, patch domain.StudentPatch) (*domain.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.repoErr != nil {
		return nil, r.repoErr
	}
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrStudentNotFound
	}
	patch.Apply(s)
	clone := *s
	return &clone, nil
}

func (r *stubStudentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.repoErr != nil {
		return r.repoErr
	}
	if _, ok := r.byID[id]; !ok {
		return domain.ErrStudentNotFound
	}
	delete(r.byID, id)
	return nil
}

// Paginate applies the same filter and ordering the real stores use.
func (r *stubStudentRepo) Paginate(_ context.Context, f ports.StudentFilter) ([]*domain.Student, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.repoErr != nil {
		return nil, 0, r.repoErr
	}

	term := strings.ToLower(f.Search)
	var matched []*domain.Student
	for _, s := range r.byID {
		if term != "" &&
			!strings.Contains(strings.ToLower(s.Name), term) &&
			!strings.Contains(strings.ToLower(s.Email), term) {
			continue
		}
		clone := *s
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	if f.Offset >= len(matched) {
		return []*domain.Student{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[f.Offset:end], total, nil
}
