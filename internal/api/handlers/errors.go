package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/dvloznov/financebot/internal/api/middleware"
	"github.com/dvloznov/financebot/internal/domain"
)

const defaultErrorReportLimit = 50

// ErrorReportLister is the read surface this handler needs.
type ErrorReportLister interface {
	ListErrorReports(ctx context.Context, limit int64) ([]domain.ErrorReport, error)
}

// ErrorReportsHandler handles error-report endpoints.
type ErrorReportsHandler struct {
	repo ErrorReportLister
	log  zerolog.Logger
}

// NewErrorReportsHandler creates a new error reports handler.
func NewErrorReportsHandler(repo ErrorReportLister, log zerolog.Logger) *ErrorReportsHandler {
	return &ErrorReportsHandler{
		repo: repo,
		log:  log,
	}
}

// ListErrorReports handles GET /api/errors
func (h *ErrorReportsHandler) ListErrorReports(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultErrorReportLimit)
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || parsed <= 0 {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	reports, err := h.repo.ListErrorReports(r.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list error reports")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list error reports")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"errors": reports,
		"count":  len(reports),
	})
}
