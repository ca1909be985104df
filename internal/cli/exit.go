package cli

import (
	"errors"
	"fmt"

	"github.com/and161185/jobboard/internal/errs"
)

// Process exit codes.
const (
	exitSuccess      = 0
	exitRuntime      = 1
	exitUsage        = 2
	exitValidation   = 3
	exitUnauthorized = 4
	exitCredentials  = 5
	exitLocked       = 6
	exitConflict     = 7
	exitNotFound     = 8
)

// ExitError is an error that carries a specific process exit code.
// Commands return it to signal the desired exit code to main.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

// exitError creates a new ExitError with the given code and formatted message.
func exitError(code int, format string, args ...any) *ExitError {
	return &ExitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// toExit maps a service error to an ExitError with a user-facing message.
func toExit(err error) error {
	if err == nil {
		return nil
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return err
	}

	code := exitRuntime
	switch {
	case errors.Is(err, errs.ErrValidation):
		code = exitValidation
	case errors.Is(err, errs.ErrAccountLocked):
		code = exitLocked
	case errors.Is(err, errs.ErrInvalidCredentials):
		code = exitCredentials
	case errors.Is(err, errs.ErrUnauthorized), errors.Is(err, errs.ErrSessionExpired):
		code = exitUnauthorized
	case errors.Is(err, errs.ErrAlreadyExists):
		code = exitConflict
	case errors.Is(err, errs.ErrNotFound):
		code = exitNotFound
	}
	return &ExitError{Code: code, Message: errs.UserMessage(err), Err: err}
}
