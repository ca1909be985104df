// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/jobboard/internal/model"
)

// UserRepository provides access to registered accounts.
type UserRepository interface {
	// Create appends a new user. It returns errs.ErrAlreadyExists if the email is taken.
	Create(ctx context.Context, u model.UserRecord) error
	// GetByEmail loads a user by normalized email.
	GetByEmail(ctx context.Context, email string) (model.UserRecord, error)
	// List returns every stored user.
	List(ctx context.Context) ([]model.UserRecord, error)
}
