package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/orggate/pkg/logger"
)

// AsyncOptions tunes AsyncWriter batching.
type AsyncOptions struct {
	BufferSize     int           `env:"AUDIT_BUFFER_SIZE" envDefault:"1000"`
	BatchSize      int           `env:"AUDIT_BATCH_SIZE" envDefault:"100"`
	BatchTimeout   time.Duration `env:"AUDIT_BATCH_TIMEOUT" envDefault:"200ms"`
	StorageTimeout time.Duration `env:"AUDIT_STORAGE_TIMEOUT" envDefault:"5s"`
}

func (o AsyncOptions) withDefaults() AsyncOptions {
	if o.BufferSize <= 0 {
		o.BufferSize = 1000
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 100
	}
	if o.BatchTimeout <= 0 {
		o.BatchTimeout = 200 * time.Millisecond
	}
	if o.StorageTimeout <= 0 {
		o.StorageTimeout = 5 * time.Second
	}
	return o
}

// AsyncWriter queues events and writes them in batches from one goroutine.
// Store does not wait for the write. When the queue is full the event is
// written synchronously so nothing is dropped. Write failures are logged.
type AsyncWriter struct {
	bw     BatchWriter
	opts   AsyncOptions
	log    *slog.Logger
	events chan Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewAsyncWriter starts the background writer. Call Close on shutdown.
func NewAsyncWriter(bw BatchWriter, opts AsyncOptions, log *slog.Logger) *AsyncWriter {
	if log == nil {
		log = logger.Noop()
	}
	opts = opts.withDefaults()
	w := &AsyncWriter{
		bw:     bw,
		opts:   opts,
		log:    log,
		events: make(chan Event, opts.BufferSize),
		done:   make(chan struct{}),
	}
	go w.run()
	return w
}

// Store implements Writer.
func (w *AsyncWriter) Store(ctx context.Context, e Event) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrWriterClosed
	}

	select {
	case w.events <- e:
		return nil
	default:
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.opts.StorageTimeout)
		defer cancel()
		return w.bw.StoreBatch(ctx, []Event{e})
	}
}

func (w *AsyncWriter) run() {
	defer close(w.done)

	batch := make([]Event, 0, w.opts.BatchSize)
	ticker := time.NewTicker(w.opts.BatchTimeout)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), w.opts.StorageTimeout)
		defer cancel()
		if err := w.bw.StoreBatch(ctx, batch); err != nil {
			w.log.Error("failed to write audit events",
				logger.Error(err),
				slog.Int("events", len(batch)),
				logger.Component("audit"),
			)
		}
		batch = make([]Event, 0, w.opts.BatchSize)
	}

	for {
		select {
		case e, ok := <-w.events:
			if !ok {
				flush()
				return
			}
			batch = append(batch, e)
			if len(batch) >= w.opts.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// Close stops accepting events and waits for queued ones to be written.
func (w *AsyncWriter) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.events)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return errors.Join(ErrStorageNotAvailable, ctx.Err())
	}
}
