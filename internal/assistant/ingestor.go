package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/financebot/internal/domain"
	"github.com/dvloznov/financebot/internal/money"
)

// IngestRequest is one transaction to record. AmountText is the amount as
// the user wrote it; Category, when set, names the category directly and
// skips resolution.
type IngestRequest struct {
	AmountText        string
	Establishment     string
	Kind              domain.Kind
	Date              time.Time
	Category          string
	ExternalMessageID string
	SubmittedBy       string
}

// TransactionIngestor turns an interpreted message into a stored
// transaction: parse the amount, sign it by kind, resolve the category,
// insert keyed by the external message ID.
type TransactionIngestor struct {
	transactions TransactionStore
	resolver     *CategoryResolver
	log          zerolog.Logger
}

// NewTransactionIngestor wires the ingestor.
func NewTransactionIngestor(transactions TransactionStore, resolver *CategoryResolver, log zerolog.Logger) *TransactionIngestor {
	return &TransactionIngestor{
		transactions: transactions,
		resolver:     resolver,
		log:          log,
	}
}

// Ingest records the transaction. Replaying the same ExternalMessageID
// returns domain.ErrDuplicateTransaction with nothing written.
func (i *TransactionIngestor) Ingest(ctx context.Context, req IngestRequest) (*domain.Transaction, error) {
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("Ingest: unknown kind %q", req.Kind)
	}
	if req.ExternalMessageID == "" {
		return nil, fmt.Errorf("Ingest: missing external message id")
	}

	amount, err := money.ParseAmount(req.AmountText)
	if err != nil {
		return nil, fmt.Errorf("Ingest: %w", err)
	}

	// The sign comes from the kind, never from the written amount.
	amount = amount.Abs()
	if req.Kind == domain.KindExpense {
		amount = amount.Neg()
	}

	establishment := strings.ToLower(strings.TrimSpace(req.Establishment))

	category := req.Category
	if category != "" {
		category, err = i.resolver.EnsureNamed(ctx, category, establishment)
	} else {
		category, err = i.resolver.Resolve(ctx, establishment)
	}
	if err != nil {
		return nil, fmt.Errorf("Ingest: %w", err)
	}

	tx := &domain.Transaction{
		Amount:            amount.InexactFloat64(),
		Date:              midnightUTC(req.Date),
		Kind:              req.Kind,
		Category:          category,
		Establishment:     establishment,
		ExternalMessageID: req.ExternalMessageID,
		SubmittedBy:       req.SubmittedBy,
	}

	if err := i.transactions.InsertTransaction(ctx, tx); err != nil {
		return nil, err
	}

	i.log.Info().
		Str("kind", string(tx.Kind)).
		Str("establishment", tx.Establishment).
		Str("category", tx.Category).
		Str("amount", decimal.NewFromFloat(tx.Amount).StringFixed(2)).
		Msg("Transaction recorded")
	return tx, nil
}

func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
