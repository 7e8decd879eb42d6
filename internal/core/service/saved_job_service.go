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

type savedJobService struct {
	saved    ports.SavedJobStore
	resolver *OwnershipResolver
	guard    *AccessGuard
	log      zerolog.Logger
}

// NewSavedJobService returns a SavedJobService implementation.
func NewSavedJobService(saved ports.SavedJobStore, resolver *OwnershipResolver, guard *AccessGuard, log zerolog.Logger) ports.SavedJobService {
	return &savedJobService{saved: saved, resolver: resolver, guard: guard, log: log}
}

// Save bookmarks a job of any status for the acting job seeker.
func (s *savedJobService) Save(ctx context.Context, actor domain.ActorContext, jobID string) (*domain.SavedJob, error) {
	_, d, err := s.resolver.Job(ctx, jobID)
	if err != nil {
		return nil, s.guard.Unresolved(actor, domain.ActionSave, domain.KindJob, jobID, err)
	}
	if err := s.guard.Check(ctx, actor, domain.ActionSave, d); err != nil {
		return nil, err
	}

	saved := &domain.SavedJob{
		ID:        uuid.NewString(),
		UserID:    actor.AccountID,
		JobID:     jobID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.saved.Create(ctx, saved); err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}
	return saved, nil
}

func (s *savedJobService) Remove(ctx context.Context, actor domain.ActorContext, id string) error {
	_, d, err := s.resolver.SavedJob(ctx, id)
	if err != nil {
		return s.guard.Unresolved(actor, domain.ActionDelete, domain.KindSavedJob, id, err)
	}
	if err := s.guard.Check(ctx, actor, domain.ActionDelete, d); err != nil {
		return err
	}
	if err := s.saved.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove saved job: %w", err)
	}
	return nil
}

// List returns the actor's own bookmarks. The query is scoped by owner, so no
// per-item decision is needed.
func (s *savedJobService) List(ctx context.Context, actor domain.ActorContext) ([]*domain.SavedJob, error) {
	if actor.AccountID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if actor.Status != domain.StatusActive {
		return nil, domain.ErrAccountInactive
	}
	items, err := s.saved.ListByUser(ctx, actor.AccountID)
	if err != nil {
		return nil, fmt.Errorf("list saved jobs: %w", err)
	}
	return items, nil
}
