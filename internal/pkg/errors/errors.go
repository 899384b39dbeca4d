package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrConflict is a sentinel for uniqueness violations (duplicate pair, duplicate email).
	ErrConflict = errors.New("conflict")
	// ErrValidation is a sentinel for malformed or rejected input.
	ErrValidation = errors.New("invalid argument")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
)
