package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/talentbridge/access-core/internal/core/domain"
)

// wrapError maps driver errors onto domain errors. conflict is returned for
// duplicate-key violations.
func wrapError(err error, what string, conflict error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	case conflict != nil && mongo.IsDuplicateKeyError(err):
		return conflict
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.D, what string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var result T
	if err := col.FindOne(ctx, filter).Decode(&result); err != nil {
		return nil, wrapError(err, what, nil)
	}
	return &result, nil
}

func findMany[T any](ctx context.Context, col *mongo.Collection, filter bson.D, what string, opts ...*options.FindOptions) ([]*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, wrapError(err, what, nil)
	}
	defer cursor.Close(ctx)

	results := []*T{}
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", what, err)
		}
		results = append(results, &item)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return results, nil
}

func insertOne(ctx context.Context, col *mongo.Collection, doc interface{}, what string, conflict error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := col.InsertOne(ctx, doc)
	return wrapError(err, what, conflict)
}

// updateOne applies update to the document with the given _id and decodes the
// document as it is after the update.
func updateOne[T any](ctx context.Context, col *mongo.Collection, id interface{}, update bson.D, what string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var result T
	if err := col.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, update, opts).Decode(&result); err != nil {
		return nil, wrapError(err, what, nil)
	}
	return &result, nil
}

func deleteByID(ctx context.Context, col *mongo.Collection, id interface{}, what string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return wrapError(err, what, nil)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}
