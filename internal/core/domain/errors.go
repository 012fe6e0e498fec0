package domain

import "errors"

// Operation failure kinds. Services wrap the underlying cause with one of these,
// e.g. fmt.Errorf("%w: %w", ErrCreationFailed, cause).
var (
	ErrInvalidCredentials = errors.New("the provided credentials are incorrect")
	ErrRegistrationFailed = errors.New("failed to register")
	ErrLogoutFailed       = errors.New("failed to logout")
	ErrRetrievalFailed    = errors.New("failed to retrieve students")
	ErrCreationFailed     = errors.New("failed to create student")
	ErrUpdateFailed       = errors.New("failed to update student")
	ErrDeletionFailed     = errors.New("failed to delete student")
)

// Store-level conditions surfaced by repositories.
var (
	ErrStudentNotFound = errors.New("student not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrTokenNotFound   = errors.New("access token not found")
	ErrEmailTaken      = errors.New("email has already been taken")
)

// ErrUnauthenticated is returned when a bearer token cannot be resolved to a live user.
var ErrUnauthenticated = errors.New("unauthenticated")
