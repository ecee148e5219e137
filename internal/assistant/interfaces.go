package assistant

import (
	"context"
	"time"

	"github.com/dvloznov/financebot/internal/domain"
)

// TransactionStore is the slice of the transaction repository the assistant
// needs: recording movements and recalling recent categorizations.
type TransactionStore interface {
	InsertTransaction(ctx context.Context, tx *domain.Transaction) error
	LatestCategoryForEstablishment(ctx context.Context, establishment string, since time.Time) (string, error)
}

// CategoryStore reads and lazily creates categories.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	FindCategoryByName(ctx context.Context, name string) (*domain.Category, error)
	CreateCategoryIfAbsent(ctx context.Context, category domain.Category) (*domain.Category, error)
}

// ErrorStore appends problem reports.
type ErrorStore interface {
	InsertErrorReport(ctx context.Context, report *domain.ErrorReport) error
}
