package ports

import (
	"context"

	"github.com/talentbridge/access-core/internal/core/domain"
)

// CreateJobInput carries the fields of a new posting.
type CreateJobInput struct {
	Title       string
	Company     string
	Location    string
	Description string
}

// JobService manages postings.
type JobService interface {
	Create(ctx context.Context, actor domain.ActorContext, input CreateJobInput) (*domain.Job, error)
	Get(ctx context.Context, actor domain.ActorContext, id string) (*domain.Job, error)
	Update(ctx context.Context, actor domain.ActorContext, id string, fields domain.JobUpdate) (*domain.Job, error)
	Close(ctx context.Context, actor domain.ActorContext, id string) (*domain.Job, error)
	Delete(ctx context.Context, actor domain.ActorContext, id string) error
}

// ApplicationService manages applications to jobs.
type ApplicationService interface {
	Apply(ctx context.Context, actor domain.ActorContext, jobID, coverLetter string) (*domain.Application, error)
	Get(ctx context.Context, actor domain.ActorContext, id string) (*domain.Application, error)
	UpdateStatus(ctx context.Context, actor domain.ActorContext, id string, status domain.ApplicationStatus) (*domain.Application, error)
	Withdraw(ctx context.Context, actor domain.ActorContext, id string) error
}

// SavedJobService manages a job seeker's bookmarks.
type SavedJobService interface {
	Save(ctx context.Context, actor domain.ActorContext, jobID string) (*domain.SavedJob, error)
	Remove(ctx context.Context, actor domain.ActorContext, id string) error
	List(ctx context.Context, actor domain.ActorContext) ([]*domain.SavedJob, error)
}

// ChatService manages direct conversations and their messages.
type ChatService interface {
	OpenDirect(ctx context.Context, actor domain.ActorContext, peerID string) (*domain.Chat, error)
	Get(ctx context.Context, actor domain.ActorContext, id string) (*domain.Chat, []*domain.Message, error)
	Send(ctx context.Context, actor domain.ActorContext, chatID, body string) (*domain.Message, error)
	MarkRead(ctx context.Context, actor domain.ActorContext, messageID string) (*domain.Message, error)
}
