package kv

import (
	"context"
	"fmt"
	"time"

	"github.com/and161185/jobboard/internal/errs"
	"github.com/and161185/jobboard/internal/model"
)

// SessionRepo implements SessionRepository over the current-user keys.
type SessionRepo struct{ s Store }

// NewSessionRepo constructs a session repository.
func NewSessionRepo(s Store) *SessionRepo { return &SessionRepo{s: s} }

func (r *SessionRepo) Start(ctx context.Context, u model.User, at time.Time) error {
	if !r.s.Set(ctx, KeyCurrentUser, u) {
		return fmt.Errorf("save current user: %w", errs.ErrUnexpected)
	}
	if !r.s.Set(ctx, KeyLastActivity, at) {
		return fmt.Errorf("save last activity: %w", errs.ErrUnexpected)
	}
	return nil
}

func (r *SessionRepo) CurrentUser(ctx context.Context) (model.User, error) {
	var u model.User
	if !r.s.Get(ctx, KeyCurrentUser, &u) {
		return model.User{}, errs.ErrNotFound
	}
	return u, nil
}

func (r *SessionRepo) Touch(ctx context.Context, at time.Time) error {
	if last, err := r.LastActivity(ctx); err == nil && at.Before(last) {
		return nil
	}
	if !r.s.Set(ctx, KeyLastActivity, at) {
		return fmt.Errorf("save last activity: %w", errs.ErrUnexpected)
	}
	return nil
}

func (r *SessionRepo) LastActivity(ctx context.Context) (time.Time, error) {
	var at time.Time
	if !r.s.Get(ctx, KeyLastActivity, &at) {
		return time.Time{}, errs.ErrNotFound
	}
	return at, nil
}

func (r *SessionRepo) SetToken(ctx context.Context, token string) error {
	if !r.s.Set(ctx, KeySessionToken, token) {
		return fmt.Errorf("save session token: %w", errs.ErrUnexpected)
	}
	return nil
}

func (r *SessionRepo) Token(ctx context.Context) (string, error) {
	var tok string
	if !r.s.Get(ctx, KeySessionToken, &tok) {
		return "", errs.ErrNotFound
	}
	return tok, nil
}

func (r *SessionRepo) End(ctx context.Context) {
	r.s.Remove(ctx, KeyCurrentUser)
	r.s.Remove(ctx, KeyLastActivity)
	r.s.Remove(ctx, KeySessionToken)
}
