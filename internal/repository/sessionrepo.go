package repository

import (
	"context"
	"time"

	"github.com/and161185/jobboard/internal/model"
)

// SessionRepository stores the state of the logged-in session.
type SessionRepository interface {
	// Start stores the current user and its first activity time.
	Start(ctx context.Context, u model.User, at time.Time) error
	// CurrentUser returns errs.ErrNotFound when nobody is logged in.
	CurrentUser(ctx context.Context) (model.User, error)
	// Touch records activity. Timestamps earlier than the stored one are ignored.
	Touch(ctx context.Context, at time.Time) error
	// LastActivity returns errs.ErrNotFound when no activity was recorded.
	LastActivity(ctx context.Context) (time.Time, error)
	SetToken(ctx context.Context, token string) error
	Token(ctx context.Context) (string, error)
	// End removes the current user, last activity and session token.
	End(ctx context.Context)
}
