package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/financebot/internal/llm"
)

// Collections the generator may target. Anything else in the description is
// an unusable pipeline, not a store round trip.
const (
	CollectionTransactions = "transactions"
	CollectionCategories   = "categories"
)

// IndexLister exposes the live index layout of a collection, fed into the
// pipeline prompt so the model favors indexed fields.
type IndexLister interface {
	ListIndexFields(ctx context.Context, collection string) ([][]string, error)
}

// Answer is the user-facing outcome of an analytical question. Chart is nil
// when no chart was warranted or the model failed to describe one.
type Answer struct {
	Message string     `json:"message"`
	Chart   *ChartSpec `json:"chart,omitempty"`
}

// ChartSpec is a Plotly-style figure description, passed through to the
// presentation layer without interpretation.
type ChartSpec struct {
	Data   []map[string]any `json:"data"`
	Layout map[string]any   `json:"layout,omitempty"`
}

// Answerer drives an analytical question end to end: model builds a
// pipeline description, the description is validated and date-normalized,
// the executor runs it, and the model phrases the results.
type Answerer struct {
	completer llm.Completer
	executor  *Executor
	indexes   IndexLister
	now       func() time.Time
	log       zerolog.Logger
}

// NewAnswerer wires the orchestrator. The completer should be configured at
// temperature 0; determinism is assumed but never trusted.
func NewAnswerer(completer llm.Completer, executor *Executor, indexes IndexLister, log zerolog.Logger) *Answerer {
	return &Answerer{
		completer: completer,
		executor:  executor,
		indexes:   indexes,
		now:       time.Now,
		log:       log,
	}
}

// pipelineDescription is the exchange format the generator must produce.
type pipelineDescription struct {
	Collection string `json:"collection"`
	Pipeline   any    `json:"pipeline"`
}

// Answer answers an analytical question. Validation failures and generator
// contract violations are fatal and surfaced as-is; an empty result set is
// a valid answer saying no data exists for the period.
func (a *Answerer) Answer(ctx context.Context, question string) (*Answer, error) {
	today := a.now().Format("2006-01-02")

	indexes, err := a.indexes.ListIndexFields(ctx, CollectionTransactions)
	if err != nil {
		// Index names only enrich the prompt; the question can still be
		// answered without them.
		a.log.Warn().Err(err).Msg("Could not list indexes for prompt context")
		indexes = nil
	}

	raw, err := a.completer.Complete(ctx, llm.Request{
		Prompt: buildPipelinePrompt(today, indexes, question),
	})
	if err != nil {
		return nil, fmt.Errorf("Answerer.Answer: pipeline generation: %w", err)
	}

	var desc pipelineDescription
	if err := llm.DecodeStrict(raw, &desc); err != nil {
		return nil, &UngeneratablePipelineError{Response: raw, Err: err}
	}
	if desc.Collection == "" || desc.Pipeline == nil {
		return nil, &UngeneratablePipelineError{
			Response: raw,
			Err:      fmt.Errorf("missing collection or pipeline key"),
		}
	}
	if desc.Collection != CollectionTransactions && desc.Collection != CollectionCategories {
		return nil, &UngeneratablePipelineError{
			Response: raw,
			Err:      fmt.Errorf("unknown collection %q", desc.Collection),
		}
	}

	stages, err := ParseStages(desc.Pipeline)
	if err != nil {
		return nil, err
	}

	stages, err = NormalizeDates(stages)
	if err != nil {
		return nil, err
	}

	results, err := a.executor.Execute(ctx, desc.Collection, stages)
	if err != nil {
		return nil, err
	}

	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("Answerer.Answer: marshal results: %w", err)
	}

	message, err := a.completer.Complete(ctx, llm.Request{
		Prompt: buildSummaryPrompt(today, question, string(resultsJSON)),
	})
	if err != nil {
		return nil, fmt.Errorf("Answerer.Answer: summarize results: %w", err)
	}

	answer := &Answer{Message: message}

	if len(results) > 0 && a.wantsChart(ctx, question, string(resultsJSON)) {
		answer.Chart = a.chartSpec(ctx, question, string(resultsJSON))
	}

	return answer, nil
}

// wantsChart delegates the chart-worthiness decision to the model. Any
// failure here means no chart, never a failed answer.
func (a *Answerer) wantsChart(ctx context.Context, question, resultsJSON string) bool {
	raw, err := a.completer.Complete(ctx, llm.Request{
		Prompt: buildChartDecisionPrompt(question, resultsJSON),
	})
	if err != nil {
		a.log.Warn().Err(err).Msg("Chart decision call failed")
		return false
	}
	return strings.EqualFold(strings.TrimSpace(raw), "true")
}

// chartSpec asks the model for a figure description. A malformed spec
// degrades to no chart; the message already answered the question.
func (a *Answerer) chartSpec(ctx context.Context, question, resultsJSON string) *ChartSpec {
	raw, err := a.completer.Complete(ctx, llm.Request{
		Prompt: buildChartSpecPrompt(question, resultsJSON),
	})
	if err != nil {
		a.log.Warn().Err(err).Msg("Chart spec call failed")
		return nil
	}

	var spec ChartSpec
	if err := llm.DecodeStrict(raw, &spec); err != nil {
		a.log.Warn().Err(err).Msg("Model returned an unusable chart spec")
		return nil
	}
	if len(spec.Data) == 0 {
		return nil
	}
	return &spec
}
