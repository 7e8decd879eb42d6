package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/talentbridge/access-core/internal/core/domain"
	"github.com/talentbridge/access-core/internal/core/ports"
)

type jobService struct {
	jobs     ports.JobStore
	resolver *OwnershipResolver
	guard    *AccessGuard
	log      zerolog.Logger
}

// NewJobService returns a JobService implementation.
func NewJobService(jobs ports.JobStore, resolver *OwnershipResolver, guard *AccessGuard, log zerolog.Logger) ports.JobService {
	return &jobService{jobs: jobs, resolver: resolver, guard: guard, log: log}
}

func (s *jobService) Create(ctx context.Context, actor domain.ActorContext, in ports.CreateJobInput) (*domain.Job, error) {
	if err := s.guard.Check(ctx, actor, domain.ActionCreate, domain.NewJobTarget()); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	company := strings.TrimSpace(in.Company)
	if title == "" || company == "" {
		return nil, fmt.Errorf("create job: title and company: %w", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	job := &domain.Job{
		ID:          uuid.NewString(),
		RecruiterID: actor.AccountID,
		Title:       title,
		Company:     company,
		Location:    strings.TrimSpace(in.Location),
		Description: in.Description,
		Status:      domain.JobActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		s.log.Error().Err(err).Msg("failed to create job")
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.log.Info().Str("job_id", job.ID).Str("recruiter_id", job.RecruiterID).Msg("job created")
	return job, nil
}

func (s *jobService) Get(ctx context.Context, actor domain.ActorContext, id string) (*domain.Job, error) {
	return s.authorize(ctx, actor, domain.ActionRead, id)
}

func (s *jobService) Update(ctx context.Context, actor domain.ActorContext, id string, fields domain.JobUpdate) (*domain.Job, error) {
	if fields.Status != nil && *fields.Status != domain.JobActive && *fields.Status != domain.JobClosed {
		return nil, fmt.Errorf("update job: status %q: %w", *fields.Status, domain.ErrInvalidInput)
	}
	if fields.Title != nil && strings.TrimSpace(*fields.Title) == "" {
		return nil, fmt.Errorf("update job: title: %w", domain.ErrInvalidInput)
	}
	if _, err := s.authorize(ctx, actor, domain.ActionUpdate, id); err != nil {
		return nil, err
	}

	job, err := s.jobs.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	return job, nil
}

// Close stops a job from accepting applications. The posting stays readable.
func (s *jobService) Close(ctx context.Context, actor domain.ActorContext, id string) (*domain.Job, error) {
	job, err := s.authorize(ctx, actor, domain.ActionUpdate, id)
	if err != nil {
		return nil, err
	}
	if job.Status == domain.JobClosed {
		return nil, fmt.Errorf("close job: %w (already closed)", domain.ErrInvalidTransition)
	}

	closed := domain.JobClosed
	job, err = s.jobs.Update(ctx, id, domain.JobUpdate{Status: &closed})
	if err != nil {
		return nil, fmt.Errorf("close job: %w", err)
	}
	s.log.Info().Str("job_id", id).Str("actor_id", actor.AccountID).Msg("job closed")
	return job, nil
}

func (s *jobService) Delete(ctx context.Context, actor domain.ActorContext, id string) error {
	if _, err := s.authorize(ctx, actor, domain.ActionDelete, id); err != nil {
		return err
	}
	if err := s.jobs.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	s.log.Info().Str("job_id", id).Str("actor_id", actor.AccountID).Msg("job deleted")
	return nil
}

func (s *jobService) authorize(ctx context.Context, actor domain.ActorContext, action domain.Action, id string) (*domain.Job, error) {
	job, d, err := s.resolver.Job(ctx, id)
	if err != nil {
		return nil, s.guard.Unresolved(actor, action, domain.KindJob, id, err)
	}
	if err := s.guard.Check(ctx, actor, action, d); err != nil {
		return nil, err
	}
	return job, nil
}
