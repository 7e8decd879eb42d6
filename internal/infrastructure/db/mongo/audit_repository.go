package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/talentbridge/access-core/internal/core/domain"
	"github.com/talentbridge/access-core/internal/core/ports"
)

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{col: db.Collection(colAuditLog)}
}

// Insert appends an entry to the audit trail.
func (r *AuditRepository) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	return insertOne(ctx, r.col, entry, "insert audit entry", nil)
}
