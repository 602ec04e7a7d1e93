package domain

import "errors"

// Sentinel errors shared across services and repositories.
var (
	// ErrNotFound is returned when a requested document does not exist, or
	// a filtered lookup that requires a match yields zero results.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller is not allowed to perform
	// the operation (e.g. mutating an event they do not host).
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput is returned when the request is structurally invalid.
	ErrInvalidInput = errors.New("invalid input")
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
