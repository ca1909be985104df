package kv

import (
	"context"
	"fmt"

	"github.com/and161185/jobboard/internal/errs"
	"github.com/and161185/jobboard/internal/model"
)

// UserRepo implements UserRepository over the "users" collection.
type UserRepo struct{ s Store }

// NewUserRepo constructs a user repository.
func NewUserRepo(s Store) *UserRepo { return &UserRepo{s: s} }

// Create appends u unless its email is already registered.
func (r *UserRepo) Create(ctx context.Context, u model.UserRecord) error {
	users, err := r.List(ctx)
	if err != nil {
		return err
	}
	for _, existing := range users {
		if existing.Email == u.Email {
			return errs.ErrAlreadyExists
		}
	}
	users = append(users, u)
	if !r.s.Set(ctx, KeyUsers, users) {
		return fmt.Errorf("save users: %w", errs.ErrUnexpected)
	}
	return nil
}

// GetByEmail finds a user by exact (normalized) email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.UserRecord, error) {
	users, err := r.List(ctx)
	if err != nil {
		return model.UserRecord{}, err
	}
	for _, u := range users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.UserRecord{}, errs.ErrNotFound
}

// List returns all users. A missing or unreadable collection is empty; the only error is
// a done context.
func (r *UserRepo) List(ctx context.Context) ([]model.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var users []model.UserRecord
	if !r.s.Get(ctx, KeyUsers, &users) {
		return []model.UserRecord{}, nil
	}
	return users, nil
}
