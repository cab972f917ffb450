package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/orggate/pkg/binder"
	"github.com/dmitrymomot/orggate/pkg/logger"
)

// NewErrorHandler returns an ErrorHandler that logs the failure and writes
// a JSON error envelope. Binding errors become 400; client errors log at
// warn and server errors at error.
func NewErrorHandler(log *slog.Logger) ErrorHandler[Context] {
	if log == nil {
		log = logger.Noop()
	}

	return func(ctx Context, err error) {
		if errors.Is(err, binder.ErrFailedToParseQuery) {
			err = fmt.Errorf("%w: %w", NewHTTPError(http.StatusBadRequest, "invalid_request"), err)
		}

		resp := JSONError(err).(*jsonResponse)

		level := slog.LevelError
		if resp.status < http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		r := ctx.Request()
		log.LogAttrs(r.Context(), level, "request error",
			logger.Error(err),
			slog.Int("status_code", resp.status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("handler"),
		)

		if renderErr := resp.Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.Error("failed to render error response", logger.Error(renderErr))
		}
	}
}
