// Package limiter defines interfaces and implementations for login rate limiting.
package limiter

import (
	"context"
	"time"
)

// Defaults used when no option overrides them.
const (
	DefaultMaxAttempts     = 5
	DefaultLockoutDuration = 15 * time.Minute
)

// Lockout is the result of a lockout check.
type Lockout struct {
	Locked bool
	// Remaining is the exact time left; RemainingMinutes rounds it up.
	Remaining        time.Duration
	RemainingMinutes int
}

// Attempt is the result of recording a failed login.
type Attempt struct {
	AttemptsLeft int
	// Locked is set when this failure started a lockout.
	Locked bool
}

// Limiter controls login attempts and temporary lockouts per identifier.
//
// An identifier moves Clear -> Accumulating -> Locked -> Clear. An attempt record and a lockout
// record never coexist for the same identifier.
type Limiter interface {
	// CheckLockout reports whether the identifier is locked. Expired lockouts are removed.
	CheckLockout(ctx context.Context, id string) Lockout
	// RecordFailure counts a failed attempt and locks the identifier once the budget is spent.
	RecordFailure(ctx context.Context, id string) Attempt
	// Clear resets the identifier after a successful login.
	Clear(ctx context.Context, id string)
	// Sweep deletes every expired attempt and lockout record and returns how many were removed.
	Sweep(ctx context.Context) int
}
