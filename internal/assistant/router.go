package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/dvloznov/financebot/internal/llm"
)

// Intent is the flow a message belongs to.
type Intent string

const (
	IntentAnalysis    Intent = "analysis"
	IntentRecord      Intent = "record"
	IntentReportError Intent = "report_error"
	IntentUnknown     Intent = "unknown"
)

// IntentRouter classifies messages into one of the four intents. Anything
// the model answers outside that vocabulary collapses to IntentUnknown.
type IntentRouter struct {
	completer llm.Completer
}

// NewIntentRouter wires the router.
func NewIntentRouter(completer llm.Completer) *IntentRouter {
	return &IntentRouter{completer: completer}
}

// Route classifies one message.
func (r *IntentRouter) Route(ctx context.Context, text string) (Intent, error) {
	raw, err := r.completer.Complete(ctx, llm.Request{
		Prompt: buildIntentPrompt(text),
	})
	if err != nil {
		return IntentUnknown, fmt.Errorf("Route: %w", err)
	}

	switch Intent(strings.ToLower(strings.TrimSpace(raw))) {
	case IntentAnalysis:
		return IntentAnalysis, nil
	case IntentRecord:
		return IntentRecord, nil
	case IntentReportError:
		return IntentReportError, nil
	default:
		return IntentUnknown, nil
	}
}
