// Package audit records every dispatched booking action with a
// PII-redacted payload. Each request produces a pending entry once
// validation passes and a terminal entry when the handler finishes, tied
// together by the request correlation id. Recording never blocks or fails
// a request.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/bluepeak/home-services-platform/pkg/logging"
)

// Status is the lifecycle state of one audit entry.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Event is one audit record. Payload is stored redacted; raw payloads
// never reach the store.
type Event struct {
	ID            string          `json:"id"`
	CorrelationID string          `json:"correlation_id"`
	Action        string          `json:"action"`
	ThreadID      string          `json:"thread_id,omitempty"`
	Status        Status          `json:"status"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	ExternalID    string          `json:"external_id,omitempty"`
	ErrorDetails  string          `json:"error_details,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Store persists audit events.
type Store interface {
	Insert(ctx context.Context, event Event) error
	Query(ctx context.Context, filter Filter) ([]Event, error)
}

// Filter selects audit events for admin queries.
type Filter struct {
	CorrelationID string
	Action        string
	Status        Status
	Limit         int
	Offset        int
}

// Recorder writes redacted audit entries. A nil store degrades to
// structured-log-only auditing.
type Recorder struct {
	store  Store
	logger *logging.Logger
}

// NewRecorder creates an audit recorder.
func NewRecorder(store Store, logger *logging.Logger) *Recorder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Recorder{store: store, logger: logger}
}

// Pending records that a validated action is about to run.
func (r *Recorder) Pending(ctx context.Context, correlationID, action, threadID string, payload json.RawMessage) {
	r.record(ctx, Event{
		CorrelationID: correlationID,
		Action:        action,
		ThreadID:      threadID,
		Status:        StatusPending,
		Payload:       RedactPayload(payload),
	})
}

// Success records a completed action, with the collaborator's id when one
// was returned.
func (r *Recorder) Success(ctx context.Context, correlationID, action, threadID, externalID string) {
	r.record(ctx, Event{
		CorrelationID: correlationID,
		Action:        action,
		ThreadID:      threadID,
		Status:        StatusSuccess,
		ExternalID:    externalID,
	})
}

// Failed records a terminal failure with its error details.
func (r *Recorder) Failed(ctx context.Context, correlationID, action, threadID, details string) {
	r.record(ctx, Event{
		CorrelationID: correlationID,
		Action:        action,
		ThreadID:      threadID,
		Status:        StatusFailed,
		ErrorDetails:  details,
	})
}

func (r *Recorder) record(ctx context.Context, event Event) {
	event.ID = uuid.NewString()
	event.CreatedAt = time.Now().UTC()

	r.logger.Info("audit: action "+string(event.Status),
		"correlation_id", event.CorrelationID,
		"action", event.Action,
		"thread_id", event.ThreadID,
		"external_id", event.ExternalID,
		"error_details", event.ErrorDetails,
	)

	if r.store == nil {
		return
	}
	if err := r.store.Insert(ctx, event); err != nil {
		// Observability must not become a source of request failure.
		r.logger.Error("audit: failed to persist event",
			"error", err,
			"correlation_id", event.CorrelationID,
			"status", event.Status,
		)
	}
}

// Query exposes the store for admin reads.
func (r *Recorder) Query(ctx context.Context, filter Filter) ([]Event, error) {
	if r.store == nil {
		return nil, nil
	}
	return r.store.Query(ctx, filter)
}
