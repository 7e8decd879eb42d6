package ports

import (
	"context"

	"github.com/talentbridge/access-core/internal/core/domain"
)

// AuditRepository persists audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
}

// AuditSink accepts entries without blocking the caller.
type AuditSink interface {
	Enqueue(entry domain.AuditEntry)
}
