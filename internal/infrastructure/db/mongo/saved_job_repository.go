package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/talentbridge/access-core/internal/core/domain"
)

// SavedJobRepository implements ports.SavedJobStore.
type SavedJobRepository struct {
	col *mongo.Collection
}

func NewSavedJobRepository(db *mongo.Database) *SavedJobRepository {
	return &SavedJobRepository{col: db.Collection(colSavedJobs)}
}

func (r *SavedJobRepository) FindByID(ctx context.Context, id string) (*domain.SavedJob, error) {
	return findOne[domain.SavedJob](ctx, r.col, bson.D{{Key: "_id", Value: id}}, "find saved job "+id)
}

func (r *SavedJobRepository) Create(ctx context.Context, saved *domain.SavedJob) error {
	return insertOne(ctx, r.col, saved, "insert saved job", domain.ErrDuplicateSavedJob)
}

func (r *SavedJobRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, "delete saved job "+id)
}

func (r *SavedJobRepository) ListByUser(ctx context.Context, userID string) ([]*domain.SavedJob, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findMany[domain.SavedJob](ctx, r.col, bson.D{{Key: "user_id", Value: userID}}, "list saved jobs", opts)
}
