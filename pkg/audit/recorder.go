package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/orggate/pkg/clientip"
	"github.com/dmitrymomot/orggate/pkg/requestid"
)

// Recorder builds events and passes them to a Writer.
type Recorder struct {
	w   Writer
	now func() time.Time
}

// RecorderOption configures Recorder.
type RecorderOption func(*Recorder)

func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRecorder creates a Recorder writing to w.
func NewRecorder(w Writer, opts ...RecorderOption) *Recorder {
	r := &Recorder{w: w, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record writes an event for action with the given result.
func (r *Recorder) Record(ctx context.Context, action string, result Result, opts ...EventOption) error {
	e := Event{
		ID:        uuid.New(),
		Action:    action,
		Result:    result,
		RequestID: requestid.FromContext(ctx),
		IP:        clientip.FromContext(ctx),
		CreatedAt: r.now().UTC(),
	}
	for _, opt := range opts {
		opt(&e)
	}
	if err := e.Validate(); err != nil {
		return err
	}
	return r.w.Store(ctx, e)
}
