package ports

import (
	"context"

	"github.com/talentbridge/access-core/internal/core/domain"
)

// CreateAccountInput is used by admins to create accounts of any role.
type CreateAccountInput struct {
	Email    string
	Password string
	Name     string
	Role     domain.Role
	Status   domain.AccountStatus
}

// AccountService manages account records on behalf of an actor.
type AccountService interface {
	Create(ctx context.Context, actor domain.ActorContext, input CreateAccountInput) (*domain.Account, error)
	Get(ctx context.Context, actor domain.ActorContext, id string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, actor domain.ActorContext, id, name string) (*domain.Account, error)
	ChangeRole(ctx context.Context, actor domain.ActorContext, id string, role domain.Role) (*domain.Account, error)
	SetStatus(ctx context.Context, actor domain.ActorContext, id string, status domain.AccountStatus) (*domain.Account, error)
	Delete(ctx context.Context, actor domain.ActorContext, id string) error
}
