package analysis

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Aggregator runs an aggregation pipeline against a named collection. The
// store implementation passes the stage tokens through unchanged.
type Aggregator interface {
	Aggregate(ctx context.Context, collection string, pipeline []bson.D) ([]bson.M, error)
}

// Executor submits validated, date-normalized stages to the store and
// serializes the results into a transport-safe shape. It never retries:
// retry policy, if any, belongs to the caller.
type Executor struct {
	agg Aggregator
	log zerolog.Logger
}

// NewExecutor creates an executor over the given aggregation capability.
func NewExecutor(agg Aggregator, log zerolog.Logger) *Executor {
	return &Executor{agg: agg, log: log}
}

// Execute runs the stages against the named collection. Stages must already
// be validated and date-normalized. Store failures of any sort are wrapped
// in a PipelineExecutionError carrying the collection and stage sequence.
func (e *Executor) Execute(ctx context.Context, collection string, stages []Stage) ([]map[string]any, error) {
	pipeline := make([]bson.D, len(stages))
	for i, s := range stages {
		pipeline[i] = s.document()
	}

	docs, err := e.agg.Aggregate(ctx, collection, pipeline)
	if err != nil {
		return nil, &PipelineExecutionError{
			Collection: collection,
			Stages:     stages,
			Err:        err,
		}
	}

	results := make([]map[string]any, len(docs))
	for i, doc := range docs {
		results[i] = serializeDocument(doc)
	}

	e.log.Debug().
		Str("collection", collection).
		Int("stages", len(stages)).
		Int("results", len(results)).
		Msg("Pipeline executed")

	return results, nil
}

// serializeDocument converts store-native values into transport-safe ones:
// object IDs become hex strings and temporal values become plain
// YYYY-MM-DD date strings.
func serializeDocument(doc bson.M) map[string]any {
	out := make(map[string]any, len(doc))
	for key, value := range doc {
		out[key] = serializeValue(value)
	}
	return out
}

func serializeValue(value any) any {
	switch v := value.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case primitive.DateTime:
		return v.Time().UTC().Format("2006-01-02")
	case time.Time:
		return v.UTC().Format("2006-01-02")
	case bson.M:
		return serializeDocument(v)
	case bson.D:
		m := make(map[string]any, len(v))
		for _, e := range v {
			m[e.Key] = serializeValue(e.Value)
		}
		return m
	case bson.A:
		arr := make([]any, len(v))
		for i, item := range v {
			arr[i] = serializeValue(item)
		}
		return arr
	default:
		return value
	}
}
