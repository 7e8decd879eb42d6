package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Collection names.
const (
	colAccounts     = "accounts"
	colJobs         = "jobs"
	colApplications = "applications"
	colSavedJobs    = "saved_jobs"
	colChats        = "chats"
	colMessages     = "messages"
	colAuditLog     = "access_audit"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes creates every index the stores rely on. The unique indexes
// are what make email registration, applications, bookmarks and direct chats
// race-free, so startup must fail if they cannot be built.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	type idx struct {
		col  string
		keys bson.D
		opts *options.IndexOptions
	}

	unique := func() *options.IndexOptions { return options.Index().SetUnique(true) }

	indexes := []idx{
		{colAccounts, bson.D{{Key: "email", Value: 1}}, unique()},

		{colJobs, bson.D{{Key: "recruiter_id", Value: 1}}, nil},
		{colJobs, bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}, nil},

		{colApplications, bson.D{{Key: "user_id", Value: 1}, {Key: "job_id", Value: 1}}, unique()},
		{colApplications, bson.D{{Key: "job_id", Value: 1}}, nil},

		{colSavedJobs, bson.D{{Key: "user_id", Value: 1}, {Key: "job_id", Value: 1}}, unique()},

		{colChats, bson.D{{Key: "pair_key", Value: 1}}, unique().
			SetPartialFilterExpression(bson.D{{Key: "is_group", Value: false}})},
		{colChats, bson.D{{Key: "participants", Value: 1}}, nil},

		{colMessages, bson.D{{Key: "chat_id", Value: 1}, {Key: "created_at", Value: 1}}, nil},

		{colAuditLog, bson.D{{Key: "actor_id", Value: 1}, {Key: "at", Value: -1}}, nil},
	}

	for _, i := range indexes {
		model := mongo.IndexModel{Keys: i.keys, Options: i.opts}
		if _, err := db.Collection(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("ensure index on %s: %w", i.col, err)
		}
	}
	return nil
}

// Ping runs the ping command against db. It backs the readiness probe.
func Ping(ctx context.Context, db *mongo.Database) error {
	return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}
