package analysis

import (
	"fmt"
	"strings"
)

// Validation failures for generator-supplied pipelines. The reason strings
// are surfaced to the caller verbatim; nothing here is retried or repaired
// automatically.
var (
	ErrNotAPipeline    = newValidationError("the pipeline must be a sequence of stage objects")
	ErrFilterNotFirst  = newValidationError("a $match stage, when present, must be the first stage")
	ErrDisallowedStage = newValidationError("only $match, $group, $count, $sort, $limit and $project stages are allowed")
	ErrLimitNotLast    = newValidationError("a $limit stage may only be the last stage")
)

// ValidationError is a structural or ordering violation in a pipeline
// description. It is deterministic and cheap on purpose: a firewall against
// a non-deterministic generator, not a query type-checker.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func newValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// UngeneratablePipelineError means the model did not produce a usable
// {"collection": ..., "pipeline": [...]} description. Always fatal for the
// request; the raw response is kept for the error report.
type UngeneratablePipelineError struct {
	Response string
	Err      error
}

func (e *UngeneratablePipelineError) Error() string {
	return fmt.Sprintf("model did not return a usable pipeline description: %v", e.Err)
}

func (e *UngeneratablePipelineError) Unwrap() error { return e.Err }

// MalformedDateError reports a date bound that is not an ISO-8601 date or
// date-time string.
type MalformedDateError struct {
	Value string
	Err   error
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("malformed date %q in pipeline filter: %v", e.Value, e.Err)
}

func (e *MalformedDateError) Unwrap() error { return e.Err }

// PipelineExecutionError wraps a store failure with the collection and the
// stage sequence that triggered it, for observability and error reporting.
type PipelineExecutionError struct {
	Collection string
	Stages     []Stage
	Err        error
}

func (e *PipelineExecutionError) Error() string {
	kinds := make([]string, len(e.Stages))
	for i, s := range e.Stages {
		kinds[i] = string(s.Kind)
	}
	return fmt.Sprintf("pipeline execution failed on collection %q (stages: %s): %v",
		e.Collection, strings.Join(kinds, ", "), e.Err)
}

func (e *PipelineExecutionError) Unwrap() error { return e.Err }
