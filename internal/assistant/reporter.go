package assistant

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/financebot/internal/domain"
	"github.com/dvloznov/financebot/internal/llm"
)

// fallbackClassification is used when the model cannot classify a problem.
const fallbackClassification = "unknown"

// ErrorReporter files problem reports into the errors collection. Reporting
// is best effort on every level: a failed classification falls back to the
// raw message, and a failed insert is only logged. Report never fails the
// flow that called it.
type ErrorReporter struct {
	reports   ErrorStore
	completer llm.Completer
	now       func() time.Time
	log       zerolog.Logger
}

// NewErrorReporter wires the reporter.
func NewErrorReporter(reports ErrorStore, completer llm.Completer, log zerolog.Logger) *ErrorReporter {
	return &ErrorReporter{
		reports:   reports,
		completer: completer,
		now:       time.Now,
		log:       log,
	}
}

type errorSummary struct {
	Description    string `json:"description"`
	Classification string `json:"classification"`
}

// Report classifies the problem and appends it with status New.
func (r *ErrorReporter) Report(ctx context.Context, message, reportedBy string) {
	summary := r.classify(ctx, message)

	report := &domain.ErrorReport{
		Description:    summary.Description,
		Classification: summary.Classification,
		ReportedBy:     reportedBy,
		OccurredAt:     r.now(),
		Status:         domain.ErrorReportStatusNew,
	}
	if err := r.reports.InsertErrorReport(ctx, report); err != nil {
		r.log.Error().Err(err).Str("description", report.Description).Msg("Could not file error report")
	}
}

func (r *ErrorReporter) classify(ctx context.Context, message string) errorSummary {
	fallback := errorSummary{Description: message, Classification: fallbackClassification}

	raw, err := r.completer.Complete(ctx, llm.Request{
		System: errorClassifySystemRole,
		Prompt: buildErrorClassifyPrompt(message),
	})
	if err != nil {
		r.log.Warn().Err(err).Msg("Error classification call failed")
		return fallback
	}

	var summary errorSummary
	if err := llm.DecodeStrict(raw, &summary); err != nil {
		r.log.Warn().Err(err).Msg("Model returned an unusable error summary")
		return fallback
	}
	if summary.Description == "" {
		summary.Description = message
	}
	if summary.Classification == "" {
		summary.Classification = fallbackClassification
	}
	return summary
}
