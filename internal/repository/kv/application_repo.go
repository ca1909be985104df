package kv

import (
	"context"
	"fmt"
	"slices"

	"github.com/and161185/jobboard/internal/errs"
	"github.com/and161185/jobboard/internal/model"
)

// ApplicationRepo implements ApplicationRepository over the "applications" and "appliedJobs" keys.
type ApplicationRepo struct{ s Store }

// NewApplicationRepo constructs an application repository.
func NewApplicationRepo(s Store) *ApplicationRepo { return &ApplicationRepo{s: s} }

func (r *ApplicationRepo) Add(ctx context.Context, a model.Application) error {
	apps, err := r.List(ctx)
	if err != nil {
		return err
	}
	apps = append(apps, a)
	if !r.s.Set(ctx, KeyApplications, apps) {
		return fmt.Errorf("save applications: %w", errs.ErrUnexpected)
	}

	applied, err := r.AppliedJobs(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(applied, a.JobID) {
		applied = append(applied, a.JobID)
		if !r.s.Set(ctx, KeyAppliedJobs, applied) {
			return fmt.Errorf("save applied jobs: %w", errs.ErrUnexpected)
		}
	}
	return nil
}

func (r *ApplicationRepo) List(ctx context.Context) ([]model.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	var apps []model.Application
	if !r.s.Get(ctx, KeyApplications, &apps) {
		return []model.Application{}, nil
	}
	return apps, nil
}

func (r *ApplicationRepo) AppliedJobs(ctx context.Context) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list applied jobs: %w", err)
	}
	var ids []int
	if !r.s.Get(ctx, KeyAppliedJobs, &ids) {
		return []int{}, nil
	}
	return ids, nil
}
