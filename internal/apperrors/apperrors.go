package apperrors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict is returned when an operation would repeat a one-time mutation.
	ErrConflict = errors.New("conflict")
	// ErrUpstream is returned when the generation backend cannot be reached.
	ErrUpstream = errors.New("upstream generation failure")
)
