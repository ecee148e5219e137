package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/dvloznov/financebot/internal/api/middleware"
	"github.com/dvloznov/financebot/internal/domain"
)

const defaultTransactionLimit = 100

// TransactionLister is the read surface this handler needs.
type TransactionLister interface {
	ListTransactions(ctx context.Context, limit int64) ([]domain.Transaction, error)
}

// TransactionsHandler handles transaction-related endpoints.
type TransactionsHandler struct {
	repo TransactionLister
	log  zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(repo TransactionLister, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{
		repo: repo,
		log:  log,
	}
}

// ListTransactions handles GET /api/transactions
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultTransactionLimit)
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || parsed <= 0 {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	transactions, err := h.repo.ListTransactions(r.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	if transactions == nil {
		transactions = []domain.Transaction{}
	}
	middleware.WriteJSON(w, http.StatusOK, transactions)
}
