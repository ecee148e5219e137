package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dvloznov/financebot/internal/domain"
)

// TransactionRepository persists transactions in the transactions collection.
type TransactionRepository struct {
	store *Store
}

// NewTransactionRepository creates a repository over the shared store.
func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

// InsertTransaction writes one transaction. A unique index on
// external_message_id turns a replayed message into
// domain.ErrDuplicateTransaction instead of a second row.
func (r *TransactionRepository) InsertTransaction(ctx context.Context, tx *domain.Transaction) error {
	res, err := r.store.db.Collection(transactionsCollection).InsertOne(ctx, tx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateTransaction
		}
		return fmt.Errorf("InsertTransaction: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		tx.ID = id
	}
	return nil
}

// LatestCategoryForEstablishment returns the category of the most recent
// categorized transaction at the given establishment since the cutoff, or
// "" when none exists. Absence is not an error.
func (r *TransactionRepository) LatestCategoryForEstablishment(ctx context.Context, establishment string, since time.Time) (string, error) {
	filter := bson.M{
		"establishment": establishment,
		"date":          bson.M{"$gte": since},
		"category":      bson.M{"$nin": bson.A{"", nil}},
	}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetProjection(bson.M{"category": 1})

	var doc struct {
		Category string `bson:"category"`
	}
	err := r.store.db.Collection(transactionsCollection).FindOne(ctx, filter, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("LatestCategoryForEstablishment: %w", err)
	}
	return doc.Category, nil
}

// ListTransactions returns the newest transactions first, capped at limit.
func (r *TransactionRepository) ListTransactions(ctx context.Context, limit int64) ([]domain.Transaction, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(limit)

	cur, err := r.store.db.Collection(transactionsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("ListTransactions: %w", err)
	}
	defer cur.Close(ctx)

	var txs []domain.Transaction
	if err := cur.All(ctx, &txs); err != nil {
		return nil, fmt.Errorf("ListTransactions: decoding: %w", err)
	}
	return txs, nil
}
