package ports

import (
	"context"
	"time"

	"github.com/talentbridge/access-core/internal/core/domain"
)

// PasswordHasher wraps a one-way hash primitive.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// SessionIssuer turns an active account into a signed session.
type SessionIssuer interface {
	Issue(account *domain.Account) (*domain.Session, error)
}

// SessionValidator reconstructs the actor from a raw bearer token without
// consulting the account store.
type SessionValidator interface {
	Validate(ctx context.Context, rawToken string) (domain.ActorContext, error)
}

// Authorizer is the pure decision function.
type Authorizer interface {
	Decide(actor domain.ActorContext, action domain.Action, d domain.ResourceDescriptor) domain.Decision
}

// OwnershipResolver fetches the ownership chain of an existing resource.
type OwnershipResolver interface {
	Resolve(ctx context.Context, kind domain.ResourceKind, id string) (domain.ResourceDescriptor, error)
}

// LoginLimiter throttles password attempts per key within a fixed window.
type LoginLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Reset(ctx context.Context, key string) error
}
