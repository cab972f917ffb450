package audit

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/orggate/pkg/logger"
)

// SlogWriter emits events as structured log records. It is the default
// backend when accounts are kept in memory.
type SlogWriter struct {
	log *slog.Logger
}

func NewSlogWriter(log *slog.Logger) *SlogWriter {
	if log == nil {
		log = logger.Noop()
	}
	return &SlogWriter{log: log}
}

// StoreBatch implements BatchWriter.
func (w *SlogWriter) StoreBatch(ctx context.Context, events []Event) error {
	for _, e := range events {
		w.log.LogAttrs(ctx, slog.LevelInfo, "audit",
			slog.String("id", e.ID.String()),
			slog.String("action", e.Action),
			slog.String("result", string(e.Result)),
			slog.String("account_id", e.AccountID),
			logger.Provider(e.Provider),
			logger.ExternalID(e.ExternalID),
			slog.String("reason", e.Reason),
			logger.RequestID(e.RequestID),
			slog.String("ip", e.IP),
			slog.Time("created_at", e.CreatedAt),
			logger.Component("audit"),
		)
	}
	return nil
}
