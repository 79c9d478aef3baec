package usecase

import "github.com/cockroachdb/errors"

// Sentinels the HTTP layer maps onto status codes. Wrap them with %w.
var (
	// ErrInvalidInput rejects a request before any write.
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict means the request is valid but the current state forbids
	// it, such as a closed prediction window.
	ErrConflict = errors.New("conflict")
	// ErrDependencyUnavailable means the write may have landed but a follow-up
	// step (publishing, config) did not.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
