package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/financebot/internal/domain"
	"github.com/dvloznov/financebot/internal/llm"
)

// ParsedMessage is the model's reading of a free-text transaction message.
// Amount stays textual; Date is "YYYY-MM-DD" or "" when the message named
// no date.
type ParsedMessage struct {
	Kind          domain.Kind `json:"kind"`
	AmountText    string      `json:"amount"`
	Establishment string      `json:"establishment"`
	Category      string      `json:"category"`
	Description   string      `json:"description"`
	Date          string      `json:"date"`
}

// MessageInterpreter extracts the fields of a transaction message.
type MessageInterpreter struct {
	completer llm.Completer
	now       func() time.Time
	log       zerolog.Logger
}

// NewMessageInterpreter wires the interpreter.
func NewMessageInterpreter(completer llm.Completer, log zerolog.Logger) *MessageInterpreter {
	return &MessageInterpreter{
		completer: completer,
		now:       time.Now,
		log:       log,
	}
}

// Interpret parses the message. A reply outside the JSON contract or one
// missing the mandatory fields is a GeneratorContractError.
func (m *MessageInterpreter) Interpret(ctx context.Context, text string) (*ParsedMessage, error) {
	today := m.now().Format("2006-01-02")

	raw, err := m.completer.Complete(ctx, llm.Request{
		System: interpretSystemRole,
		Prompt: buildInterpretPrompt(today, text),
	})
	if err != nil {
		return nil, fmt.Errorf("Interpret: %w", err)
	}

	var parsed ParsedMessage
	if err := llm.DecodeStrict(raw, &parsed); err != nil {
		return nil, &GeneratorContractError{Response: raw, Err: err}
	}
	if !parsed.Kind.Valid() {
		return nil, &GeneratorContractError{Response: raw, Err: fmt.Errorf("unknown kind %q", parsed.Kind)}
	}
	if parsed.AmountText == "" {
		return nil, &GeneratorContractError{Response: raw, Err: fmt.Errorf("missing amount")}
	}
	if parsed.Establishment == "" {
		return nil, &GeneratorContractError{Response: raw, Err: fmt.Errorf("missing establishment")}
	}
	return &parsed, nil
}
