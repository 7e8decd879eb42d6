package ports

import (
	"context"

	"github.com/talentbridge/access-core/internal/core/domain"
)

// Every FindByID returns an error matching domain.ErrNotFound when the
// document does not exist.

type JobStore interface {
	FindByID(ctx context.Context, id string) (*domain.Job, error)
	Create(ctx context.Context, job *domain.Job) error
	Update(ctx context.Context, id string, fields domain.JobUpdate) (*domain.Job, error)
	Delete(ctx context.Context, id string) error
}

// ApplicationStore persists applications. Create must enforce the
// (user_id, job_id) unique constraint atomically and report a violation as
// domain.ErrDuplicateApplication.
type ApplicationStore interface {
	FindByID(ctx context.Context, id string) (*domain.Application, error)
	Create(ctx context.Context, app *domain.Application) error
	UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) (*domain.Application, error)
	Delete(ctx context.Context, id string) error
}

// SavedJobStore persists bookmarks, unique per (user_id, job_id).
type SavedJobStore interface {
	FindByID(ctx context.Context, id string) (*domain.SavedJob, error)
	Create(ctx context.Context, saved *domain.SavedJob) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]*domain.SavedJob, error)
}

// ChatStore persists chats. Create reports a second direct chat for the same
// pair as domain.ErrDuplicateChat.
type ChatStore interface {
	FindByID(ctx context.Context, id string) (*domain.Chat, error)
	FindByPairKey(ctx context.Context, pairKey string) (*domain.Chat, error)
	Create(ctx context.Context, chat *domain.Chat) error
}

type MessageStore interface {
	FindByID(ctx context.Context, id string) (*domain.Message, error)
	Create(ctx context.Context, msg *domain.Message) error
	MarkRead(ctx context.Context, id, accountID string) (*domain.Message, error)
	ListByChat(ctx context.Context, chatID string, limit int) ([]*domain.Message, error)
}
