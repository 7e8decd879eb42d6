package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/talentbridge/access-core/internal/core/domain"
)

// ApplicationRepository implements ports.ApplicationStore. The unique
// (user_id, job_id) index turns a concurrent second insert into
// domain.ErrDuplicateApplication.
type ApplicationRepository struct {
	col *mongo.Collection
}

func NewApplicationRepository(db *mongo.Database) *ApplicationRepository {
	return &ApplicationRepository{col: db.Collection(colApplications)}
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*domain.Application, error) {
	return findOne[domain.Application](ctx, r.col, bson.D{{Key: "_id", Value: id}}, "find application "+id)
}

func (r *ApplicationRepository) Create(ctx context.Context, app *domain.Application) error {
	return insertOne(ctx, r.col, app, "insert application", domain.ErrDuplicateApplication)
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) (*domain.Application, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: string(status)},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}
	return updateOne[domain.Application](ctx, r.col, id, update, "update application "+id)
}

func (r *ApplicationRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, "delete application "+id)
}
