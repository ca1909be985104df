// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates an operation that needs a logged-in user.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials indicates a wrong email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountLocked indicates temporary login lock due to rate limiting.
	ErrAccountLocked = errors.New("account locked")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrSessionExpired indicates the idle timeout elapsed and the user was logged out.
	ErrSessionExpired = errors.New("session expired")

	// ErrValidation indicates malformed user input.
	ErrValidation = errors.New("validation")

	// ErrUnexpected is the catch-all for storage and crypto failures.
	ErrUnexpected = errors.New("unexpected error")
)
