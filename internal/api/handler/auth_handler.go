package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/api/envelope"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/api/metrics"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	metrics     *metrics.Metrics
}

func NewAuthHandler(authService ports.AuthService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{authService: authService, metrics: m}
}

// Register creates a new user account and returns its first token.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  envelope.Response{data=authPayload}
// @Failure      400   {object}  envelope.Response
// @Failure      409   {object}  envelope.Response
// @Failure      422   {object}  envelope.Response
// @Failure      500   {object}  envelope.Response
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, token, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	h.metrics.ObserveAuth("register", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, envelope.Success("Registration successful", authPayload{User: user, Token: token}))
}

// Login authenticates a user and returns a fresh token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  envelope.Response{data=authPayload}
// @Failure      400   {object}  envelope.Response
// @Failure      422   {object}  envelope.Response
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	h.metrics.ObserveAuth("login", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, envelope.Success("Login successful", authPayload{User: user, Token: token}))
}

// Logout destroys the token that authenticated this request.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope.Response
// @Failure      401  {object}  envelope.Response
// @Failure      500  {object}  envelope.Response
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	err = h.authService.Logout(c.Request().Context(), principal)
	h.metrics.ObserveAuth("logout", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, envelope.Success("Logged out successfully", struct{}{}))
}

// bindAndValidate decodes the request body into req and runs the echo validator.
// A body that cannot be decoded is a 400; a decoded body that breaks a rule
// yields a *ValidationError.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload.").SetInternal(err)
	}
	return c.Validate(req)
}
