package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates every index the application relies on. Creation is
// idempotent; running it against an already-indexed database is a no-op.
//
// The unique index on external_message_id is load-bearing: it is what turns
// a replayed chat message into a duplicate-key error instead of a second
// transaction.
func EnsureIndexes(ctx context.Context, store *Store) error {
	transactionIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "external_message_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "establishment", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "establishment", Value: 1}}},
	}
	if _, err := store.db.Collection(transactionsCollection).Indexes().CreateMany(ctx, transactionIndexes); err != nil {
		return fmt.Errorf("EnsureIndexes: transactions: %w", err)
	}

	categoryIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := store.db.Collection(categoriesCollection).Indexes().CreateMany(ctx, categoryIndexes); err != nil {
		return fmt.Errorf("EnsureIndexes: categories: %w", err)
	}

	errorIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "classification", Value: 1}}},
		{Keys: bson.D{{Key: "occurred_at", Value: -1}}},
	}
	if _, err := store.db.Collection(errorsCollection).Indexes().CreateMany(ctx, errorIndexes); err != nil {
		return fmt.Errorf("EnsureIndexes: errors: %w", err)
	}

	return nil
}
