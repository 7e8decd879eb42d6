package ports

import (
	"context"

	"github.com/talentbridge/access-core/internal/core/domain"
)

// RegisterInput carries self-registration data.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     domain.Role
}

// AuthService covers the credential and session lifecycle.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (*domain.Session, *domain.Account, error)
	// Refresh re-reads the live account and issues a new snapshot session.
	Refresh(ctx context.Context, actor domain.ActorContext) (*domain.Session, *domain.Account, error)
	Me(ctx context.Context, actor domain.ActorContext) (*domain.Account, error)
	ChangePassword(ctx context.Context, actor domain.ActorContext, current, next string) error
}
