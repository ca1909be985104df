package repository

import (
	"context"

	"github.com/and161185/jobboard/internal/model"
)

// ApplicationRepository stores submitted job applications.
type ApplicationRepository interface {
	// Add records an application and marks its job as applied.
	Add(ctx context.Context, a model.Application) error
	// List returns applications in submission order.
	List(ctx context.Context) ([]model.Application, error)
	// AppliedJobs returns the ids of jobs applied to, without duplicates.
	AppliedJobs(ctx context.Context) ([]int, error)
}
