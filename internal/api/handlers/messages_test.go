package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dvloznov/financebot/internal/jobs"
	"github.com/dvloznov/financebot/internal/logger"
)

type fakePublisher struct {
	err       error
	published []*jobs.ChatMessageJob
}

func (f *fakePublisher) PublishChatMessage(ctx context.Context, job *jobs.ChatMessageJob) error {
	if f.err != nil {
		return f.err
	}
	job.JobID = "job-1"
	job.Status = jobs.JobStatusPending
	f.published = append(f.published, job)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type fakeJobStore struct {
	job *jobs.ChatMessageJob
}

func (f *fakeJobStore) SaveJob(ctx context.Context, job *jobs.ChatMessageJob) error { return nil }

func (f *fakeJobStore) GetJob(ctx context.Context, jobID string) (*jobs.ChatMessageJob, error) {
	if f.job == nil || f.job.JobID != jobID {
		return nil, errors.New("job not found")
	}
	return f.job, nil
}

func (f *fakeJobStore) ListJobs(ctx context.Context, filter jobs.JobFilter) ([]*jobs.ChatMessageJob, error) {
	if f.job == nil {
		return nil, nil
	}
	return []*jobs.ChatMessageJob{f.job}, nil
}

func (f *fakeJobStore) UpdateJobStatus(ctx context.Context, jobID string, status jobs.JobStatus, errorMsg string) error {
	return nil
}

func newMessagesHandler(pub *fakePublisher, store *fakeJobStore) *MessagesHandler {
	return NewMessagesHandler(pub, store, logger.NewWithWriter(nil))
}

func TestPostMessage_Enqueues(t *testing.T) {
	pub := &fakePublisher{}
	h := newMessagesHandler(pub, &fakeJobStore{})

	body := `{"text": "25,90 padaria", "user_id": "ana", "message_id": "msg-1"}`
	rec := httptest.NewRecorder()
	h.PostMessage(rec, httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(body)))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp["job_id"] != "job-1" {
		t.Errorf("job_id = %q", resp["job_id"])
	}
	if resp["message_id"] != "msg-1" {
		t.Errorf("message_id = %q", resp["message_id"])
	}

	if len(pub.published) != 1 {
		t.Fatalf("published %d jobs, want 1", len(pub.published))
	}
	job := pub.published[0]
	if job.Text != "25,90 padaria" || job.UserID != "ana" {
		t.Errorf("published job = %+v", job)
	}
	if job.SentAt.IsZero() {
		t.Error("SentAt was not defaulted")
	}
}

func TestPostMessage_MintsMessageID(t *testing.T) {
	pub := &fakePublisher{}
	h := newMessagesHandler(pub, &fakeJobStore{})

	rec := httptest.NewRecorder()
	h.PostMessage(rec, httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(`{"text": "hi"}`)))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if pub.published[0].MessageID == "" {
		t.Error("a missing message_id must be minted")
	}
}

func TestPostMessage_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty text", body: `{"user_id": "ana"}`},
		{name: "invalid json", body: `{"text": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{}
			h := newMessagesHandler(pub, &fakeJobStore{})

			rec := httptest.NewRecorder()
			h.PostMessage(rec, httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(tt.body)))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if len(pub.published) != 0 {
				t.Error("nothing may be enqueued for a bad request")
			}
		})
	}
}

func TestGetMessage(t *testing.T) {
	store := &fakeJobStore{job: &jobs.ChatMessageJob{JobID: "job-1", Status: jobs.JobStatusCompleted}}
	h := newMessagesHandler(&fakePublisher{}, store)

	rec := httptest.NewRecorder()
	h.GetMessage(rec, httptest.NewRequest(http.MethodGet, "/api/messages/job-1", nil), "job-1")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var job jobs.ChatMessageJob
	if err := json.Unmarshal(rec.Body.Bytes(), &job); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if job.Status != jobs.JobStatusCompleted {
		t.Errorf("Status = %q", job.Status)
	}
}

func TestGetMessage_NotFound(t *testing.T) {
	h := newMessagesHandler(&fakePublisher{}, &fakeJobStore{})

	rec := httptest.NewRecorder()
	h.GetMessage(rec, httptest.NewRequest(http.MethodGet, "/api/messages/nope", nil), "nope")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
