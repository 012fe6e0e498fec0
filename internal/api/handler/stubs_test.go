package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/domain"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/ports"
)

type stubAuthService struct {
	registerFn     func(ctx context.Context, name, email, password string) (*domain.User, string, error)
	loginFn        func(ctx context.Context, email, password string) (*domain.User, string, error)
	logoutFn       func(ctx context.Context, p *domain.Principal) error
	authenticateFn func(ctx context.Context, token string) (*domain.Principal, error)
}

func (s *stubAuthService) Register(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	return s.registerFn(ctx, name, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, p *domain.Principal) error {
	return s.logoutFn(ctx, p)
}

func (s *stubAuthService) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	return s.authenticateFn(ctx, token)
}

type stubStudentService struct {
	listFn   func(ctx context.Context, in ports.ListStudentsInput) (*ports.StudentPage, error)
	createFn func(ctx context.Context, in ports.StudentInput) (*domain.Student, error)
	getFn    func(ctx context.Context, id string) (*domain.Student, error)
	updateFn func(ctx context.Context, id string, patch domain.StudentPatch) (*domain.Student, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubStudentService) List(ctx context.Context, in ports.ListStudentsInput) (*ports.StudentPage, error) {
	return s.listFn(ctx, in)
}

func (s *stubStudentService) Create(ctx context.Context, in ports.StudentInput) (*domain.Student, error) {
	return s.createFn(ctx, in)
}

func (s *stubStudentService) Get(ctx context.Context, id string) (*domain.Student, error) {
	return s.getFn(ctx, id)
}

func (s *stubStudentService) Update(ctx context.Context, id string, patch domain.StudentPatch) (*domain.Student, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubStudentService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

// newContext builds an echo context with the validator installed and a JSON body.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
