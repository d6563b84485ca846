package usecase

import "errors"

// Service-level failures. Domain errors (validation, step order, asset and
// attendance record checks) pass through unwrapped.
var (
	// ErrInvalidInput is a malformed request: bad ids, dates or ranges.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound covers missing, expired and foreign onboarding sessions.
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict is a username or work email that is already registered.
	ErrConflict = errors.New("resource conflict")
	// ErrDependencyUnavailable is a session store, repository or identity
	// provider failure; the caller may retry.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
