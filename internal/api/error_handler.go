package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/api/envelope"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/api/handler"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/domain"
)

const (
	msgInvalidData         = "The given data was invalid."
	msgInvalidCredentials  = "The provided credentials are incorrect."
	msgUnauthenticated     = "Unauthenticated."
	msgStudentNotFound     = "Student not found."
	msgEmailTaken          = "The email has already been taken."
	msgInternalServerError = "Internal server error."
)

// failureMessages maps operation failure kinds to their client message.
var failureMessages = []struct {
	kind error
	msg  string
}{
	{domain.ErrRegistrationFailed, "Failed to register."},
	{domain.ErrLogoutFailed, "Failed to logout."},
	{domain.ErrRetrievalFailed, "Failed to retrieve students."},
	{domain.ErrCreationFailed, "Failed to create student."},
	{domain.ErrUpdateFailed, "Failed to update student."},
	{domain.ErrDeletionFailed, "Failed to delete student."},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors and 5xx failures with their cause.
//   - Renders the envelope {status:"error", message, errors?, error?}.
//
// The error field carries the cause's text and is only set when debug is true.
func NewHTTPErrorHandler(log zerolog.Logger, debug bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if debug && code >= http.StatusInternalServerError {
			resp = resp.WithDiagnostic(err)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, envelope.Response) {
	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, envelope.Failure(msgInvalidData).WithErrors(ve.Fields)
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnexpected(log, c, err)
		}
		return he.Code, envelope.Failure(fmt.Sprintf("%v", he.Message))
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnprocessableEntity, envelope.Failure(msgInvalidCredentials).
			WithErrors(map[string][]string{"email": {msgInvalidCredentials}})
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, envelope.Failure(msgUnauthenticated)
	case errors.Is(err, domain.ErrStudentNotFound):
		return http.StatusNotFound, envelope.Failure(msgStudentNotFound)
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, envelope.Failure(msgEmailTaken).
			WithErrors(map[string][]string{"email": {msgEmailTaken}})
	}

	logUnexpected(log, c, err)

	for _, f := range failureMessages {
		if errors.Is(err, f.kind) {
			return http.StatusInternalServerError, envelope.Failure(f.msg)
		}
	}
	return http.StatusInternalServerError, envelope.Failure(msgInternalServerError)
}

func logUnexpected(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")
}
