package ports

import (
	"context"

	"github.com/talentbridge/access-core/internal/core/domain"
)

// CredentialStore defines the persistence operations for accounts. Lookups
// return an error matching domain.ErrNotFound when no account exists.
type CredentialStore interface {
	FindByNormalizedEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	// Create fails with domain.ErrEmailTaken when the normalized email is
	// already registered; uniqueness is enforced by the store.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	Update(ctx context.Context, id string, fields domain.AccountUpdate) (*domain.Account, error)
	Delete(ctx context.Context, id string) error
}
