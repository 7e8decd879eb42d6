package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/talentbridge/access-core/internal/core/domain"
	"github.com/talentbridge/access-core/internal/core/ports"
	"github.com/talentbridge/access-core/internal/pkg/metrics"
)

// Stores groups the persistence ports the resolver reads from.
type Stores struct {
	Accounts     ports.CredentialStore
	Jobs         ports.JobStore
	Applications ports.ApplicationStore
	SavedJobs    ports.SavedJobStore
	Chats        ports.ChatStore
	Messages     ports.MessageStore
}

// OwnershipResolver builds ResourceDescriptors by reading the resource and at
// most one parent. Nothing is cached: the parent is re-read on every call so a
// job transfer or a participant change is seen by the next decision.
type OwnershipResolver struct {
	stores Stores
	log    zerolog.Logger
}

func NewOwnershipResolver(stores Stores, log zerolog.Logger) *OwnershipResolver {
	return &OwnershipResolver{stores: stores, log: log}
}

// Resolve implements ports.OwnershipResolver.
func (r *OwnershipResolver) Resolve(ctx context.Context, kind domain.ResourceKind, id string) (domain.ResourceDescriptor, error) {
	var (
		d   domain.ResourceDescriptor
		err error
	)
	switch kind {
	case domain.KindJob:
		_, d, err = r.Job(ctx, id)
	case domain.KindApplication:
		_, d, err = r.Application(ctx, id)
	case domain.KindSavedJob:
		_, d, err = r.SavedJob(ctx, id)
	case domain.KindChat:
		_, d, err = r.Chat(ctx, id)
	case domain.KindMessage:
		_, d, err = r.Message(ctx, id)
	case domain.KindUserRecord:
		_, d, err = r.Account(ctx, id)
	default:
		return domain.ResourceDescriptor{}, fmt.Errorf("resolve %q: %w", kind, domain.ErrInvalidInput)
	}
	return d, err
}

func (r *OwnershipResolver) Job(ctx context.Context, id string) (*domain.Job, domain.ResourceDescriptor, error) {
	job, err := r.stores.Jobs.FindByID(ctx, id)
	if err != nil {
		return nil, domain.ResourceDescriptor{}, fmt.Errorf("resolve job %s: %w", id, err)
	}
	return job, domain.JobDescriptor(job), nil
}

// Application resolves an application and its parent job. The recruiter is
// taken from the job as it is now, never from the application.
func (r *OwnershipResolver) Application(ctx context.Context, id string) (*domain.Application, domain.ResourceDescriptor, error) {
	app, err := r.stores.Applications.FindByID(ctx, id)
	if err != nil {
		return nil, domain.ResourceDescriptor{}, fmt.Errorf("resolve application %s: %w", id, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.ResourceDescriptor{}, err
	}
	job, err := r.stores.Jobs.FindByID(ctx, app.JobID)
	if err != nil {
		return nil, domain.ResourceDescriptor{}, r.parentErr(domain.KindApplication, id, domain.KindJob, app.JobID, err)
	}
	return app, domain.ApplicationDescriptor(app, job), nil
}

func (r *OwnershipResolver) SavedJob(ctx context.Context, id string) (*domain.SavedJob, domain.ResourceDescriptor, error) {
	saved, err := r.stores.SavedJobs.FindByID(ctx, id)
	if err != nil {
		return nil, domain.ResourceDescriptor{}, fmt.Errorf("resolve saved job %s: %w", id, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.ResourceDescriptor{}, err
	}
	job, err := r.stores.Jobs.FindByID(ctx, saved.JobID)
	if err != nil {
		return nil, domain.ResourceDescriptor{}, r.parentErr(domain.KindSavedJob, id, domain.KindJob, saved.JobID, err)
	}
	return saved, domain.SavedJobDescriptor(saved, job), nil
}

func (r *OwnershipResolver) Chat(ctx context.Context, id string) (*domain.Chat, domain.ResourceDescriptor, error) {
	chat, err := r.stores.Chats.FindByID(ctx, id)
	if err != nil {
		return nil, domain.ResourceDescriptor{}, fmt.Errorf("resolve chat %s: %w", id, err)
	}
	return chat, domain.ChatDescriptor(chat), nil
}

// Message resolves a message together with the participants of its chat.
func (r *OwnershipResolver) Message(ctx context.Context, id string) (*domain.Message, domain.ResourceDescriptor, error) {
	msg, err := r.stores.Messages.FindByID(ctx, id)
	if err != nil {
		return nil, domain.ResourceDescriptor{}, fmt.Errorf("resolve message %s: %w", id, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.ResourceDescriptor{}, err
	}
	chat, err := r.stores.Chats.FindByID(ctx, msg.ChatID)
	if err != nil {
		return nil, domain.ResourceDescriptor{}, r.parentErr(domain.KindMessage, id, domain.KindChat, msg.ChatID, err)
	}
	return msg, domain.MessageDescriptor(msg, chat), nil
}

func (r *OwnershipResolver) Account(ctx context.Context, id string) (*domain.Account, domain.ResourceDescriptor, error) {
	account, err := r.stores.Accounts.FindByID(ctx, id)
	if err != nil {
		return nil, domain.ResourceDescriptor{}, fmt.Errorf("resolve account %s: %w", id, err)
	}
	return account, domain.UserDescriptor(account), nil
}

// parentErr turns a missing parent into ErrInconsistentState. Other failures
// (timeouts, driver errors) pass through unchanged.
func (r *OwnershipResolver) parentErr(kind domain.ResourceKind, id string, parentKind domain.ResourceKind, parentID string, err error) error {
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("resolve %s %s: %s %s: %w", kind, id, parentKind, parentID, err)
	}

	metrics.IntegrityFaultsTotal.WithLabelValues(string(kind)).Inc()
	r.log.Error().
		Str("kind", string(kind)).
		Str("id", id).
		Str("parent_kind", string(parentKind)).
		Str("parent_id", parentID).
		Msg("integrity fault: parent record missing")

	return fmt.Errorf("resolve %s %s: %w", kind, id, domain.ErrInconsistentState)
}
