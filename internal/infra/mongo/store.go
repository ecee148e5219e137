package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	transactionsCollection = "transactions"
	categoriesCollection   = "categories"
	errorsCollection       = "errors"
)

// Store holds a shared Mongo client and database handle. All repositories
// hang off this one connection to avoid opening a session per operation.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to the cluster and pings the primary so a bad URI fails
// at startup, not on the first user request.
func NewStore(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("NewStore: connecting: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("NewStore: pinging primary: %w", err)
	}

	return &Store{
		client: client,
		db:     client.Database(database),
	}, nil
}

// Close disconnects the underlying client. This should be called when the
// store is no longer needed to release resources.
func (s *Store) Close(ctx context.Context) error {
	if s.client != nil {
		return s.client.Disconnect(ctx)
	}
	return nil
}
