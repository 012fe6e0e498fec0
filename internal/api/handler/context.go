package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/domain"
)

const principalKey = "principal"

// SetPrincipal stores the authenticated principal on the request context.
func SetPrincipal(c echo.Context, p *domain.Principal) {
	c.Set(principalKey, p)
}

// ctxPrincipal returns the principal injected by the Auth middleware. A missing
// principal means the route was registered without the middleware.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p, _ := c.Get(principalKey).(*domain.Principal)
	if p == nil || p.User == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
	}
	return p, nil
}
