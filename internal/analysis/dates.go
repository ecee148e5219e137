package analysis

import (
	"fmt"
	"time"
)

// dateField is the transactions field carrying the calendar date. The
// generator always emits date bounds as ISO strings, the simplest
// serializable form; the store needs its native temporal type, so the
// bounds are rewritten here before execution.
const dateField = "date"

// comparison operators a date bound may appear under inside a $match stage.
var dateOperators = [...]string{"$gte", "$lte", "$gt", "$lt", "$eq"}

var dateLayouts = [...]string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// NormalizeDates returns a copy of the stages in which every textual date
// bound in the $match stage has been replaced by a time.Time truncated to
// midnight UTC. Stages other than $match pass through untouched. A string
// that is not an ISO-8601 date or date-time fails with MalformedDateError,
// which is fatal to the enclosing request.
func NormalizeDates(stages []Stage) ([]Stage, error) {
	out := make([]Stage, len(stages))
	copy(out, stages)

	for i, stage := range out {
		if stage.Kind != StageMatch {
			continue
		}

		spec, ok := stage.Spec.(map[string]any)
		if !ok {
			continue
		}

		bound, ok := spec[dateField]
		if !ok {
			continue
		}

		normalized, err := normalizeDateBound(bound)
		if err != nil {
			return nil, err
		}

		// Copy the filter map so the caller's stages stay untouched.
		specCopy := make(map[string]any, len(spec))
		for k, v := range spec {
			specCopy[k] = v
		}
		specCopy[dateField] = normalized
		out[i].Spec = specCopy
	}

	return out, nil
}

func normalizeDateBound(bound any) (any, error) {
	switch v := bound.(type) {
	case string:
		return parseISODate(v)
	case map[string]any:
		normalized := make(map[string]any, len(v))
		for k, val := range v {
			normalized[k] = val
		}
		for _, op := range dateOperators {
			s, ok := normalized[op].(string)
			if !ok {
				continue
			}
			t, err := parseISODate(s)
			if err != nil {
				return nil, err
			}
			normalized[op] = t
		}
		return normalized, nil
	default:
		// Already a temporal value or something the store will judge.
		return bound, nil
	}
}

// parseISODate parses an ISO-8601 date or date-time and truncates it to
// midnight UTC; the time of day carries no meaning in this data model.
func parseISODate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, &MalformedDateError{
		Value: s,
		Err:   fmt.Errorf("not an ISO-8601 date or date-time"),
	}
}
