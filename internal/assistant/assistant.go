package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/financebot/internal/analysis"
	"github.com/dvloznov/financebot/internal/domain"
	"github.com/dvloznov/financebot/internal/money"
)

// Message is one incoming chat message. MessageID is the idempotency key
// for recording flows; SentAt is the fallback transaction date.
type Message struct {
	Text      string    `json:"text"`
	UserID    string    `json:"user_id"`
	MessageID string    `json:"message_id"`
	SentAt    time.Time `json:"sent_at"`
}

// Reply is what goes back to the user. Chart is present only for
// analytical answers that warranted one.
type Reply struct {
	Message string              `json:"message"`
	Chart   *analysis.ChartSpec `json:"chart,omitempty"`
}

// Assistant routes a message to the matching flow and always produces a
// reply: unrecoverable failures are filed as error reports and answered
// with an apology rather than surfaced as errors.
type Assistant struct {
	router      *IntentRouter
	interpreter *MessageInterpreter
	ingestor    *TransactionIngestor
	answerer    *analysis.Answerer
	reporter    *ErrorReporter
	log         zerolog.Logger
}

// New wires the assistant facade.
func New(router *IntentRouter, interpreter *MessageInterpreter, ingestor *TransactionIngestor, answerer *analysis.Answerer, reporter *ErrorReporter, log zerolog.Logger) *Assistant {
	return &Assistant{
		router:      router,
		interpreter: interpreter,
		ingestor:    ingestor,
		answerer:    answerer,
		reporter:    reporter,
		log:         log,
	}
}

// Handle processes one message end to end.
func (a *Assistant) Handle(ctx context.Context, msg Message) *Reply {
	intent, err := a.router.Route(ctx, msg.Text)
	if err != nil {
		return a.fail(ctx, msg, err)
	}
	a.log.Info().Str("intent", string(intent)).Str("message_id", msg.MessageID).Msg("Message routed")

	switch intent {
	case IntentAnalysis:
		return a.answer(ctx, msg)
	case IntentRecord:
		return a.record(ctx, msg)
	case IntentReportError:
		a.reporter.Report(ctx, msg.Text, msg.UserID)
		return &Reply{Message: "Thanks, your report was filed and will be looked at."}
	default:
		return &Reply{Message: "I did not understand that. Send a transaction (e.g. \"25,90 bakery\") or ask a question about your finances."}
	}
}

func (a *Assistant) answer(ctx context.Context, msg Message) *Reply {
	answer, err := a.answerer.Answer(ctx, msg.Text)
	if err != nil {
		return a.fail(ctx, msg, err)
	}
	return &Reply{Message: answer.Message, Chart: answer.Chart}
}

func (a *Assistant) record(ctx context.Context, msg Message) *Reply {
	parsed, err := a.interpreter.Interpret(ctx, msg.Text)
	if err != nil {
		return a.fail(ctx, msg, err)
	}

	req := IngestRequest{
		AmountText:        parsed.AmountText,
		Establishment:     parsed.Establishment,
		Kind:              parsed.Kind,
		Date:              a.transactionDate(parsed, msg),
		ExternalMessageID: msg.MessageID,
		SubmittedBy:       msg.UserID,
	}
	// A named category is honored only when the user actually named one;
	// otherwise the resolver owns the decision.
	if mentionsCategory(msg.Text) && parsed.Category != "" {
		req.Category = parsed.Category
	}

	tx, err := a.ingestor.Ingest(ctx, req)
	if errors.Is(err, domain.ErrDuplicateTransaction) {
		return &Reply{Message: "This message was already recorded; nothing was added."}
	}
	if err != nil {
		return a.fail(ctx, msg, err)
	}

	category := tx.Category
	if category == "" {
		category = "n/a"
	}
	return &Reply{Message: fmt.Sprintf(
		"Recorded: %s of %s at %s (category: %s)",
		tx.Kind,
		money.FormatBRL(decimal.NewFromFloat(tx.Amount).Abs()),
		tx.Establishment,
		category,
	)}
}

// transactionDate prefers the date the user wrote in the message and falls
// back to the message timestamp.
func (a *Assistant) transactionDate(parsed *ParsedMessage, msg Message) time.Time {
	if parsed.Date != "" {
		if d, err := time.Parse("2006-01-02", parsed.Date); err == nil {
			return d
		}
		a.log.Warn().Str("date", parsed.Date).Msg("Interpreted date is unusable, falling back to message timestamp")
	}
	if !msg.SentAt.IsZero() {
		return msg.SentAt
	}
	return time.Now()
}

// fail files the failure and apologizes. The user never sees raw errors.
func (a *Assistant) fail(ctx context.Context, msg Message, err error) *Reply {
	a.log.Error().Err(err).Str("message_id", msg.MessageID).Msg("Message processing failed")
	a.reporter.Report(ctx, err.Error(), msg.UserID)
	return &Reply{Message: "Something went wrong while processing your message. The problem was recorded."}
}

func mentionsCategory(text string) bool {
	text = strings.ToLower(text)
	return strings.Contains(text, "category") || strings.Contains(text, "categoria")
}
