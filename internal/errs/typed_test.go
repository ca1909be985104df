package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestCredentialsError_Is(t *testing.T) {
	t.Parallel()

	var err error = &CredentialsError{AttemptsLeft: 3}
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials")
	}
	if errors.Is(err, ErrAccountLocked) {
		t.Fatalf("not locked yet")
	}

	err = fmt.Errorf("login: %w", &CredentialsError{Locked: true})
	if !errors.Is(err, ErrInvalidCredentials) || !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("locked credentials error must match both sentinels")
	}
}

func TestLockedAndValidation_Is(t *testing.T) {
	t.Parallel()

	if !errors.Is(&LockedError{RemainingMinutes: 2}, ErrAccountLocked) {
		t.Fatalf("LockedError must match ErrAccountLocked")
	}
	if !errors.Is(Validation("bad"), ErrValidation) {
		t.Fatalf("ValidationError must match ErrValidation")
	}
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&LockedError{RemainingMinutes: 7}, "Account locked. Please try again in 7 minutes."},
		{&CredentialsError{AttemptsLeft: 2}, "Invalid email or password"},
		{Validation("Please enter a valid email address", "other"), "Please enter a valid email address"},
		{fmt.Errorf("register: %w", ErrAlreadyExists), "An account with this email already exists"},
		{ErrUnauthorized, "Please log in to continue"},
		{fmt.Errorf("whoami: %w", ErrSessionExpired), "Your session has expired. Please log in again."},
		{fmt.Errorf("boom: %w", ErrUnexpected), "An error occurred. Please try again."},
	}
	for _, c := range cases {
		if got := UserMessage(c.err); got != c.want {
			t.Fatalf("UserMessage(%v)=%q, want %q", c.err, got, c.want)
		}
	}
}
