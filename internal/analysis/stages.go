// Package analysis turns model-generated query descriptions into validated,
// date-normalized aggregation pipelines, runs them against the document
// store and has the model summarize the results. The model is an untrusted,
// non-deterministic generator: everything it produces is checked before it
// touches the store.
package analysis

import (
	"go.mongodb.org/mongo-driver/bson"
)

// StageKind is the closed set of aggregation stages a pipeline may use. The
// values are the literal store tokens and are passed through unchanged.
type StageKind string

const (
	StageMatch   StageKind = "$match"
	StageGroup   StageKind = "$group"
	StageCount   StageKind = "$count"
	StageSort    StageKind = "$sort"
	StageLimit   StageKind = "$limit"
	StageProject StageKind = "$project"
)

var allowedStages = map[StageKind]bool{
	StageMatch:   true,
	StageGroup:   true,
	StageCount:   true,
	StageSort:    true,
	StageLimit:   true,
	StageProject: true,
}

// Stage is one pipeline stage as a tagged variant: internally built
// pipelines cannot hold a disallowed stage by construction, and externally
// sourced ones only become Stages after validation.
type Stage struct {
	Kind StageKind
	Spec any
}

// Match builds a $match stage.
func Match(spec bson.M) Stage { return Stage{Kind: StageMatch, Spec: spec} }

// Group builds a $group stage.
func Group(spec bson.M) Stage { return Stage{Kind: StageGroup, Spec: spec} }

// Sort builds a $sort stage.
func Sort(spec bson.D) Stage { return Stage{Kind: StageSort, Spec: spec} }

// Limit builds a $limit stage.
func Limit(n int64) Stage { return Stage{Kind: StageLimit, Spec: n} }

// document renders the stage as a single-key store document.
func (s Stage) document() bson.D {
	return bson.D{{Key: string(s.Kind), Value: s.Spec}}
}

// Validate checks a generator-supplied pipeline description against the
// structural and ordering rules, first failure wins:
//
//  1. it must be a sequence of stage objects,
//  2. a $match stage must be in position 0,
//  3. every stage key must be in the allowed vocabulary,
//  4. a $limit stage must be in the final position.
//
// No semantic checks (field existence and the like) happen here; those
// belong to the generator's prompt contract and to the store itself.
func Validate(raw any) error {
	stages, ok := asStageMaps(raw)
	if !ok {
		return ErrNotAPipeline
	}

	for i, stage := range stages {
		if _, ok := stage["$match"]; ok && i != 0 {
			return ErrFilterNotFirst
		}
	}

	for _, stage := range stages {
		for key := range stage {
			if !allowedStages[StageKind(key)] {
				return ErrDisallowedStage
			}
		}
	}

	for i, stage := range stages {
		if _, ok := stage["$limit"]; ok && i != len(stages)-1 {
			return ErrLimitNotLast
		}
	}

	return nil
}

// ParseStages validates raw and converts it into typed stages.
func ParseStages(raw any) ([]Stage, error) {
	if err := Validate(raw); err != nil {
		return nil, err
	}

	maps, _ := asStageMaps(raw)
	stages := make([]Stage, 0, len(maps))
	for _, m := range maps {
		for key, spec := range m {
			stages = append(stages, Stage{Kind: StageKind(key), Spec: spec})
		}
	}
	return stages, nil
}

// asStageMaps normalizes the decoded JSON into a slice of single-key stage
// objects. Anything else is structurally not a pipeline.
func asStageMaps(raw any) ([]map[string]any, bool) {
	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case []map[string]any:
		for _, m := range v {
			items = append(items, m)
		}
	default:
		return nil, false
	}

	stages := make([]map[string]any, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok || len(m) != 1 {
			return nil, false
		}
		stages = append(stages, m)
	}
	return stages, true
}
