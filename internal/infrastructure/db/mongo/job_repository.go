package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/talentbridge/access-core/internal/core/domain"
)

// JobRepository implements ports.JobStore.
type JobRepository struct {
	col *mongo.Collection
}

func NewJobRepository(db *mongo.Database) *JobRepository {
	return &JobRepository{col: db.Collection(colJobs)}
}

func (r *JobRepository) FindByID(ctx context.Context, id string) (*domain.Job, error) {
	return findOne[domain.Job](ctx, r.col, bson.D{{Key: "_id", Value: id}}, "find job "+id)
}

func (r *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	return insertOne(ctx, r.col, job, "insert job", nil)
}

func (r *JobRepository) Update(ctx context.Context, id string, fields domain.JobUpdate) (*domain.Job, error) {
	set := bson.D{{Key: "updated_at", Value: time.Now().UTC()}}
	if fields.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *fields.Title})
	}
	if fields.Company != nil {
		set = append(set, bson.E{Key: "company", Value: *fields.Company})
	}
	if fields.Location != nil {
		set = append(set, bson.E{Key: "location", Value: *fields.Location})
	}
	if fields.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *fields.Description})
	}
	if fields.Status != nil {
		set = append(set, bson.E{Key: "status", Value: string(*fields.Status)})
	}
	return updateOne[domain.Job](ctx, r.col, id, bson.D{{Key: "$set", Value: set}}, "update job "+id)
}

func (r *JobRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, "delete job "+id)
}
