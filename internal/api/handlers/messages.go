package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dvloznov/financebot/internal/api/middleware"
	"github.com/dvloznov/financebot/internal/jobs"
)

// MessagesHandler handles chat message endpoints. Messages are processed
// asynchronously: POST enqueues a job, GET polls its state and reply.
type MessagesHandler struct {
	publisher jobs.Publisher
	store     jobs.JobStore
	log       zerolog.Logger
}

// NewMessagesHandler creates a new messages handler.
func NewMessagesHandler(publisher jobs.Publisher, store jobs.JobStore, log zerolog.Logger) *MessagesHandler {
	return &MessagesHandler{
		publisher: publisher,
		store:     store,
		log:       log,
	}
}

// PostMessage handles POST /api/messages
func (h *MessagesHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text      string    `json:"text"`
		UserID    string    `json:"user_id"`
		MessageID string    `json:"message_id"`
		SentAt    time.Time `json:"sent_at"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Text == "" {
		middleware.WriteError(w, http.StatusBadRequest, "text is required")
		return
	}

	// MessageID is the idempotency key for recorded transactions. Clients
	// without one get a fresh ID, which also means no replay protection.
	if req.MessageID == "" {
		req.MessageID = uuid.NewString()
	}
	if req.SentAt.IsZero() {
		req.SentAt = time.Now()
	}

	job := &jobs.ChatMessageJob{
		MessageID: req.MessageID,
		UserID:    req.UserID,
		Text:      req.Text,
		SentAt:    req.SentAt,
	}

	if err := h.publisher.PublishChatMessage(r.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue message job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue message")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("message_id", job.MessageID).Msg("Message job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id":     job.JobID,
		"message_id": job.MessageID,
		"status":     string(job.Status),
	})
}

// GetMessage handles GET /api/messages/{jobId}
func (h *MessagesHandler) GetMessage(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListMessages handles GET /api/messages
func (h *MessagesHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := jobs.JobFilter{
		UserID: query.Get("user_id"),
		Status: jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list message jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list messages")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
