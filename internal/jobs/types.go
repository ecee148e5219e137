package jobs

import (
	"context"
	"time"

	"github.com/dvloznov/financebot/internal/assistant"
)

// JobType represents the type of job to be executed.
type JobType string

const (
	// JobTypeProcessMessage represents a chat message processing job.
	JobTypeProcessMessage JobType = "process_message"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	// JobStatusPending indicates the job is waiting to be processed.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the job is currently being processed.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the job completed successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job failed.
	JobStatusFailed JobStatus = "failed"
	// JobStatusRetrying indicates the job failed and is being retried.
	JobStatusRetrying JobStatus = "retrying"
)

// ChatMessageJob represents one chat message to run through the assistant.
// The assistant call involves several model round trips, so messages are
// processed off the request path and the result is polled by job ID.
type ChatMessageJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// MessageID is the external idempotency key of the chat message.
	MessageID string `json:"message_id"`

	// UserID identifies who sent the message.
	UserID string `json:"user_id"`

	// Text is the raw message text.
	Text string `json:"text"`

	// SentAt is when the message was sent.
	SentAt time.Time `json:"sent_at"`

	// Status is the current status of the job.
	Status JobStatus `json:"status"`

	// Result holds the assistant's reply once the job completed.
	Result *assistant.Reply `json:"result,omitempty"`

	// CreatedAt is when the job was created.
	CreatedAt time.Time `json:"created_at"`

	// StartedAt is when the job started processing.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when the job completed (success or failure).
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the job failed.
	Error string `json:"error,omitempty"`

	// RetryCount is the number of times this job has been retried.
	RetryCount int `json:"retry_count"`

	// MaxRetries is the maximum number of retries allowed. Chat jobs are
	// not retried by default: the assistant already converts failures
	// into replies, and duplicate inserts are fenced by the message ID.
	MaxRetries int `json:"max_retries"`
}

// Job is a generic interface for all job types.
type Job interface {
	// GetID returns the unique job identifier.
	GetID() string

	// GetType returns the job type.
	GetType() JobType

	// GetStatus returns the current job status.
	GetStatus() JobStatus
}

// GetID implements the Job interface.
func (j *ChatMessageJob) GetID() string {
	return j.JobID
}

// GetType implements the Job interface.
func (j *ChatMessageJob) GetType() JobType {
	return JobTypeProcessMessage
}

// GetStatus implements the Job interface.
func (j *ChatMessageJob) GetStatus() JobStatus {
	return j.Status
}

// Publisher defines the interface for publishing jobs to a queue.
// This abstraction allows for different queue implementations.
type Publisher interface {
	// PublishChatMessage publishes a chat message processing job.
	PublishChatMessage(ctx context.Context, job *ChatMessageJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer defines the interface for consuming jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs from the queue.
	// The handler function is called for each job received.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming jobs and waits for in-flight jobs to complete.
	Stop(ctx context.Context) error
}

// JobHandler is a function that processes a job.
// It should return an error if the job failed and should be retried.
type JobHandler func(ctx context.Context, job Job) error

// JobStore defines the interface for storing and retrieving job status.
type JobStore interface {
	// SaveJob saves or updates a job's state.
	SaveJob(ctx context.Context, job *ChatMessageJob) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID string) (*ChatMessageJob, error)

	// ListJobs retrieves jobs with optional filtering.
	ListJobs(ctx context.Context, filter JobFilter) ([]*ChatMessageJob, error)

	// UpdateJobStatus updates the status of a job.
	UpdateJobStatus(ctx context.Context, jobID string, status JobStatus, errorMsg string) error
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	// UserID filters jobs by the sending user.
	UserID string

	// Status filters jobs by status.
	Status JobStatus

	// Limit limits the number of results.
	Limit int

	// Offset for pagination.
	Offset int
}
