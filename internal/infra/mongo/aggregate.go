package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AggregationRunner runs validated aggregation pipelines and reads index
// layouts. It is the only store surface the analysis side touches.
type AggregationRunner struct {
	store *Store
}

// NewAggregationRunner creates a runner over the shared store.
func NewAggregationRunner(store *Store) *AggregationRunner {
	return &AggregationRunner{store: store}
}

// Aggregate runs the pipeline against the named collection and drains the
// cursor into raw documents.
func (r *AggregationRunner) Aggregate(ctx context.Context, collection string, pipeline []bson.D) ([]bson.M, error) {
	stages := make(mongo.Pipeline, len(pipeline))
	copy(stages, pipeline)

	cur, err := r.store.db.Collection(collection).Aggregate(ctx, stages)
	if err != nil {
		return nil, fmt.Errorf("Aggregate: %w", err)
	}
	defer cur.Close(ctx)

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("Aggregate: decoding: %w", err)
	}
	return docs, nil
}

// ListIndexFields returns the key fields of each index on the collection,
// in index key order. The implicit _id index is omitted.
func (r *AggregationRunner) ListIndexFields(ctx context.Context, collection string) ([][]string, error) {
	cur, err := r.store.db.Collection(collection).Indexes().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListIndexFields: %w", err)
	}
	defer cur.Close(ctx)

	var indexes [][]string
	for cur.Next(ctx) {
		var spec struct {
			Key bson.D `bson:"key"`
		}
		if err := cur.Decode(&spec); err != nil {
			return nil, fmt.Errorf("ListIndexFields: decoding: %w", err)
		}

		fields := make([]string, 0, len(spec.Key))
		for _, elem := range spec.Key {
			fields = append(fields, elem.Key)
		}
		if len(fields) == 1 && fields[0] == "_id" {
			continue
		}
		indexes = append(indexes, fields)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("ListIndexFields: cursor: %w", err)
	}
	return indexes, nil
}
