package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Result is the outcome of an audited action.
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
	ResultError   Result = "error"
)

// Actions recorded by the sign in flow.
const (
	ActionSignIn = "auth.signin"
)

// Event is one audit record.
type Event struct {
	ID         uuid.UUID      `json:"id"`
	Action     string         `json:"action"`
	Result     Result         `json:"result"`
	AccountID  string         `json:"account_id,omitempty"`
	Provider   string         `json:"provider,omitempty"`
	ExternalID string         `json:"external_id,omitempty"`
	Reason     string         `json:"reason,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	IP         string         `json:"ip,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Validate checks required fields.
func (e Event) Validate() error {
	switch {
	case e.Action == "":
		return fmt.Errorf("%w: action is required", ErrInvalidEvent)
	case e.Result == "":
		return fmt.Errorf("%w: result is required", ErrInvalidEvent)
	}
	return nil
}

// EventOption customizes an event before it is written.
type EventOption func(*Event)

func WithAccountID(id string) EventOption {
	return func(e *Event) { e.AccountID = id }
}

func WithIdentity(provider, externalID string) EventOption {
	return func(e *Event) {
		e.Provider = provider
		e.ExternalID = externalID
	}
}

// WithReason sets a short machine readable cause, e.g. "authorization_denied".
func WithReason(reason string) EventOption {
	return func(e *Event) { e.Reason = reason }
}

func WithUserAgent(ua string) EventOption {
	return func(e *Event) { e.UserAgent = ua }
}

// WithMetadata merges key/value pairs into the event metadata.
func WithMetadata(kv map[string]any) EventOption {
	return func(e *Event) {
		if len(kv) == 0 {
			return
		}
		if e.Metadata == nil {
			e.Metadata = make(map[string]any, len(kv))
		}
		for k, v := range kv {
			e.Metadata[k] = v
		}
	}
}

// Writer persists single events.
type Writer interface {
	Store(ctx context.Context, event Event) error
}

// BatchWriter persists events in bulk. A batch is written entirely or not at all.
type BatchWriter interface {
	StoreBatch(ctx context.Context, events []Event) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(ctx context.Context, event Event) error

func (f WriterFunc) Store(ctx context.Context, event Event) error { return f(ctx, event) }
