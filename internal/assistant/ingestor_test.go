package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dvloznov/financebot/internal/domain"
	"github.com/dvloznov/financebot/internal/logger"
)

func newTestIngestor(txs *fakeTransactionStore, cats *fakeCategoryStore, completer *scriptedCompleter) *TransactionIngestor {
	log := logger.NewWithWriter(nil)
	return NewTransactionIngestor(txs, NewCategoryResolver(txs, cats, completer, log), log)
}

func TestIngest_ExpenseIsNegative(t *testing.T) {
	txs := &fakeTransactionStore{recentCategory: "food"}
	ing := newTestIngestor(txs, &fakeCategoryStore{}, &scriptedCompleter{t: t})

	tx, err := ing.Ingest(context.Background(), IngestRequest{
		AmountText:        "R$ 25,90",
		Establishment:     "Padaria",
		Kind:              domain.KindExpense,
		Date:              time.Date(2025, 5, 10, 14, 30, 0, 0, time.UTC),
		ExternalMessageID: "msg-1",
		SubmittedBy:       "ana",
	})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if tx.Amount != -25.90 {
		t.Errorf("Amount = %v, want -25.90", tx.Amount)
	}
	if tx.Establishment != "padaria" {
		t.Errorf("Establishment = %q, want lowercased", tx.Establishment)
	}
	if want := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC); !tx.Date.Equal(want) {
		t.Errorf("Date = %v, want midnight UTC", tx.Date)
	}
	if tx.Category != "food" {
		t.Errorf("Category = %q, want food", tx.Category)
	}
	if len(txs.inserted) != 1 {
		t.Fatalf("inserted %d transactions, want 1", len(txs.inserted))
	}
}

func TestIngest_IncomeIsPositive(t *testing.T) {
	txs := &fakeTransactionStore{recentCategory: "salary"}
	ing := newTestIngestor(txs, &fakeCategoryStore{}, &scriptedCompleter{t: t})

	tx, err := ing.Ingest(context.Background(), IngestRequest{
		AmountText:        "3.500,00",
		Establishment:     "acme",
		Kind:              domain.KindIncome,
		Date:              time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		ExternalMessageID: "msg-2",
	})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if tx.Amount != 3500.0 {
		t.Errorf("Amount = %v, want 3500", tx.Amount)
	}
}

func TestIngest_SignComesFromKindNotText(t *testing.T) {
	// Even a negatively written amount becomes positive income.
	txs := &fakeTransactionStore{recentCategory: "salary"}
	ing := newTestIngestor(txs, &fakeCategoryStore{}, &scriptedCompleter{t: t})

	tx, err := ing.Ingest(context.Background(), IngestRequest{
		AmountText:        "-100",
		Establishment:     "acme",
		Kind:              domain.KindIncome,
		Date:              time.Now(),
		ExternalMessageID: "msg-3",
	})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if tx.Amount != 100.0 {
		t.Errorf("Amount = %v, want 100", tx.Amount)
	}
}

func TestIngest_NamedCategoryBypassesResolution(t *testing.T) {
	txs := &fakeTransactionStore{}
	cats := &fakeCategoryStore{byName: map[string]*domain.Category{
		"food": {Name: "food"},
	}}
	ing := newTestIngestor(txs, cats, &scriptedCompleter{t: t})

	tx, err := ing.Ingest(context.Background(), IngestRequest{
		AmountText:        "30",
		Establishment:     "padaria",
		Kind:              domain.KindExpense,
		Date:              time.Now(),
		Category:          "food",
		ExternalMessageID: "msg-4",
	})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if tx.Category != "food" {
		t.Errorf("Category = %q, want food", tx.Category)
	}
}

func TestIngest_DuplicateMessagePassesThrough(t *testing.T) {
	txs := &fakeTransactionStore{recentCategory: "food", insertErr: domain.ErrDuplicateTransaction}
	ing := newTestIngestor(txs, &fakeCategoryStore{}, &scriptedCompleter{t: t})

	_, err := ing.Ingest(context.Background(), IngestRequest{
		AmountText:        "30",
		Establishment:     "padaria",
		Kind:              domain.KindExpense,
		Date:              time.Now(),
		ExternalMessageID: "msg-5",
	})
	if !errors.Is(err, domain.ErrDuplicateTransaction) {
		t.Fatalf("Ingest() error = %v, want ErrDuplicateTransaction", err)
	}
}

func TestIngest_Rejects(t *testing.T) {
	tests := []struct {
		name string
		req  IngestRequest
	}{
		{
			name: "unknown kind",
			req:  IngestRequest{AmountText: "30", Establishment: "padaria", Kind: "transfer", ExternalMessageID: "m"},
		},
		{
			name: "unparsable amount",
			req:  IngestRequest{AmountText: "thirty", Establishment: "padaria", Kind: domain.KindExpense, ExternalMessageID: "m"},
		},
		{
			name: "missing message id",
			req:  IngestRequest{AmountText: "30", Establishment: "padaria", Kind: domain.KindExpense},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs := &fakeTransactionStore{recentCategory: "food"}
			ing := newTestIngestor(txs, &fakeCategoryStore{}, &scriptedCompleter{t: t})

			if _, err := ing.Ingest(context.Background(), tt.req); err == nil {
				t.Error("Ingest() accepted an invalid request")
			}
			if len(txs.inserted) != 0 {
				t.Error("nothing may be inserted for an invalid request")
			}
		})
	}
}
