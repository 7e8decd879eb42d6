package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/talentbridge/access-core/internal/core/domain"
	"github.com/talentbridge/access-core/internal/core/ports"
)

type applicationService struct {
	applications ports.ApplicationStore
	resolver     *OwnershipResolver
	guard        *AccessGuard
	log          zerolog.Logger
}

// NewApplicationService returns an ApplicationService implementation.
func NewApplicationService(applications ports.ApplicationStore, resolver *OwnershipResolver, guard *AccessGuard, log zerolog.Logger) ports.ApplicationService {
	return &applicationService{applications: applications, resolver: resolver, guard: guard, log: log}
}

// Apply submits an application to an active job. Uniqueness per (user, job)
// is left to the store, so concurrent submissions yield one success and one
// ErrDuplicateApplication.
func (s *applicationService) Apply(ctx context.Context, actor domain.ActorContext, jobID, coverLetter string) (*domain.Application, error) {
	_, d, err := s.resolver.Job(ctx, jobID)
	if err != nil {
		return nil, s.guard.Unresolved(actor, domain.ActionApply, domain.KindJob, jobID, err)
	}
	if err := s.guard.Check(ctx, actor, domain.ActionApply, d); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	app := &domain.Application{
		ID:          uuid.NewString(),
		UserID:      actor.AccountID,
		JobID:       jobID,
		Status:      domain.ApplicationApplied,
		CoverLetter: coverLetter,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.applications.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("apply: %w", err)
	}

	s.log.Info().Str("application_id", app.ID).Str("job_id", jobID).Str("user_id", actor.AccountID).Msg("application submitted")
	return app, nil
}

func (s *applicationService) Get(ctx context.Context, actor domain.ActorContext, id string) (*domain.Application, error) {
	app, _, err := s.authorize(ctx, actor, domain.ActionRead, id)
	return app, err
}

// UpdateStatus moves an application through the hiring flow. The applicant
// owns the record but only the job's recruiter or an admin decides on it.
func (s *applicationService) UpdateStatus(ctx context.Context, actor domain.ActorContext, id string, status domain.ApplicationStatus) (*domain.Application, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("update application: status %q: %w", status, domain.ErrInvalidInput)
	}

	app, d, err := s.authorize(ctx, actor, domain.ActionUpdate, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && d.RecruiterID != actor.AccountID {
		return nil, fmt.Errorf("update application: %w", domain.ErrForbidden)
	}
	if !app.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("update application: %w (from %s to %s)", domain.ErrInvalidTransition, app.Status, status)
	}

	updated, err := s.applications.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("update application: %w", err)
	}
	s.log.Info().Str("application_id", id).Str("status", string(status)).Str("actor_id", actor.AccountID).Msg("application status changed")
	return updated, nil
}

func (s *applicationService) Withdraw(ctx context.Context, actor domain.ActorContext, id string) error {
	if _, _, err := s.authorize(ctx, actor, domain.ActionDelete, id); err != nil {
		return err
	}
	if err := s.applications.Delete(ctx, id); err != nil {
		return fmt.Errorf("withdraw application: %w", err)
	}
	s.log.Info().Str("application_id", id).Str("actor_id", actor.AccountID).Msg("application withdrawn")
	return nil
}

func (s *applicationService) authorize(ctx context.Context, actor domain.ActorContext, action domain.Action, id string) (*domain.Application, domain.ResourceDescriptor, error) {
	app, d, err := s.resolver.Application(ctx, id)
	if err != nil {
		return nil, d, s.guard.Unresolved(actor, action, domain.KindApplication, id, err)
	}
	if err := s.guard.Check(ctx, actor, action, d); err != nil {
		return nil, d, err
	}
	return app, d, nil
}
