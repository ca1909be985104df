package errs

import (
	"errors"
	"fmt"
	"strings"
)

// CredentialsError reports a failed login together with the limiter bookkeeping.
type CredentialsError struct {
	AttemptsLeft int
	// Locked is set when this failure exhausted the attempt budget.
	Locked bool
}

func (e *CredentialsError) Error() string {
	if e.Locked {
		return "invalid credentials: account locked"
	}
	return fmt.Sprintf("invalid credentials: %d attempts left", e.AttemptsLeft)
}

// Is matches ErrInvalidCredentials, and ErrAccountLocked once the budget is spent.
func (e *CredentialsError) Is(target error) bool {
	return target == ErrInvalidCredentials || (e.Locked && target == ErrAccountLocked)
}

// LockedError reports an active lockout.
type LockedError struct {
	RemainingMinutes int
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account locked for %d more minutes", e.RemainingMinutes)
}

func (e *LockedError) Is(target error) bool { return target == ErrAccountLocked }

// ValidationError lists problems with user input, first one is the most relevant.
type ValidationError struct {
	Problems []string
}

// Validation builds a ValidationError from one or more problems.
func Validation(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	return "validation: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// UserMessage maps an error to the text shown to the user.
// Internal details are never exposed.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var (
		locked *LockedError
		creds  *CredentialsError
		valid  *ValidationError
	)
	switch {
	case errors.As(err, &locked):
		return fmt.Sprintf("Account locked. Please try again in %d minutes.", locked.RemainingMinutes)
	case errors.As(err, &creds):
		if creds.Locked {
			return "Invalid email or password. Too many failed attempts, account locked."
		}
		return "Invalid email or password"
	case errors.As(err, &valid) && len(valid.Problems) > 0:
		return valid.Problems[0]
	case errors.Is(err, ErrAlreadyExists):
		return "An account with this email already exists"
	case errors.Is(err, ErrSessionExpired):
		return "Your session has expired. Please log in again."
	case errors.Is(err, ErrUnauthorized):
		return "Please log in to continue"
	case errors.Is(err, ErrNotFound):
		return "Not found"
	default:
		return "An error occurred. Please try again."
	}
}
