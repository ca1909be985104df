package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/and161185/jobboard/internal/clock"
	"github.com/and161185/jobboard/internal/errs"
	"github.com/and161185/jobboard/internal/model"
	"github.com/and161185/jobboard/internal/repository"
	"github.com/and161185/jobboard/internal/telemetry"
)

// JobFinder looks up catalog listings.
type JobFinder interface {
	Find(id int) (model.Job, bool)
}

// ApplicationInput is the content of an application form.
type ApplicationInput struct {
	Resume      string
	CoverLetter string
}

// ApplicationService defines operations over the current user's job applications.
type ApplicationService interface {
	// Apply submits an application for jobID on behalf of the current user.
	Apply(ctx context.Context, jobID int, in ApplicationInput) (model.Application, error)
	// HasApplied reports whether jobID was already applied to.
	HasApplied(ctx context.Context, jobID int) (bool, error)
	// List returns submitted applications in order.
	List(ctx context.Context) ([]model.Application, error)
}

type ApplicationServiceImpl struct {
	repo    repository.ApplicationRepository
	auth    AuthService
	jobs    JobFinder
	clk     clock.Clock
	metrics *telemetry.Metrics
	log     *zap.Logger
}

// NewApplicationService constructs ApplicationService. clk, metrics and log may be nil.
func NewApplicationService(
	repo repository.ApplicationRepository,
	auth AuthService,
	jobs JobFinder,
	clk clock.Clock,
	metrics *telemetry.Metrics,
	log *zap.Logger,
) *ApplicationServiceImpl {
	if clk == nil {
		clk = clock.Real{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ApplicationServiceImpl{repo: repo, auth: auth, jobs: jobs, clk: clk, metrics: metrics, log: log.Named("applications")}
}

// Apply validates the request and records the application.
// Rules:
// - a user must be logged in
// - the job must exist
// - the resume must not be empty
func (s *ApplicationServiceImpl) Apply(ctx context.Context, jobID int, in ApplicationInput) (model.Application, error) {
	u, ok := s.auth.CurrentUser(ctx)
	if !ok {
		return model.Application{}, errs.ErrUnauthorized
	}
	job, ok := s.jobs.Find(jobID)
	if !ok {
		return model.Application{}, fmt.Errorf("job %d: %w", jobID, errs.ErrNotFound)
	}
	if strings.TrimSpace(in.Resume) == "" {
		return model.Application{}, errs.Validation("Please upload your resume")
	}

	a := model.Application{
		JobID:       job.ID,
		JobTitle:    job.Title,
		Company:     job.Company,
		UserID:      u.ID,
		AppliedAt:   s.clk.Now().UTC(),
		Resume:      Sanitize(strings.TrimSpace(in.Resume)),
		CoverLetter: Sanitize(in.CoverLetter),
	}
	if err := s.repo.Add(ctx, a); err != nil {
		s.log.Error("save application", zap.Int("job", jobID), zap.Error(err))
		if errors.Is(err, errs.ErrUnexpected) {
			return model.Application{}, err
		}
		return model.Application{}, fmt.Errorf("save application: %w", errs.ErrUnexpected)
	}
	s.metrics.Applied(ctx)
	return a, nil
}

func (s *ApplicationServiceImpl) HasApplied(ctx context.Context, jobID int) (bool, error) {
	ids, err := s.repo.AppliedJobs(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, jobID), nil
}

func (s *ApplicationServiceImpl) List(ctx context.Context) ([]model.Application, error) {
	return s.repo.List(ctx)
}
