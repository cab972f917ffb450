package handler

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/orggate/pkg/binder"
)

// HandlerFunc handles a typed request. C must implement Context, R is the
// request struct filled by the configured binders before the call.
//
// Example:
//
//	type CallbackRequest struct {
//		Code  string `query:"code"`
//		State string `query:"state"`
//	}
//
//	callback := func(ctx handler.Context, req CallbackRequest) handler.Response {
//		signIn, err := authn.Auth(ctx, req.Code, req.State)
//		if err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.JSON(signIn.Account)
//	}
type HandlerFunc[C Context, R any] func(ctx C, req R) Response

// Response renders itself to an http.ResponseWriter.
// Implementations set headers and status before writing the body.
// A Render error goes to the ErrorHandler.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind parses an HTTP request into a typed value.
type Bind func(r *http.Request, v any) error

// ErrorHandler handles errors from binding or rendering.
type ErrorHandler[C Context] func(ctx C, err error)

// Decorator wraps a HandlerFunc with cross-cutting behaviour. The first
// decorator passed to WithDecorators is the outermost.
//
// Example timing decorator:
//
//	func Timed[C handler.Context, R any](log *slog.Logger) handler.Decorator[C, R] {
//		return func(next handler.HandlerFunc[C, R]) handler.HandlerFunc[C, R] {
//			return func(ctx C, req R) handler.Response {
//				start := time.Now()
//				defer func() {
//					log.DebugContext(ctx, "handled", logger.Duration(time.Since(start)))
//				}()
//				return next(ctx, req)
//			}
//		}
//	}
type Decorator[C Context, R any] func(HandlerFunc[C, R]) HandlerFunc[C, R]

// WrapOption configures Wrap.
type WrapOption[C Context, R any] func(*wrapConfig[C, R])

type wrapConfig[C Context, R any] struct {
	binders        []Bind
	errorHandler ErrorHandler[C]
	decorators   []Decorator[C, R]
}

// WithBinders appends request binders applied in order.
// Binders returning binder.ErrBinderNotApplicable are skipped; any other
// error stops the request and goes to the ErrorHandler.
//
// Example:
//
//	r.Get("/callback", handler.Wrap(callback,
//		handler.WithBinders[handler.Context, CallbackRequest](binder.Query()),
//	))
func WithBinders[C Context, R any](binders ...Bind) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		c.binders = append(c.binders, binders...)
	}
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler[C Context, R any](h ErrorHandler[C]) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithDecorators appends decorators.
func WithDecorators[C Context, R any](decorators ...Decorator[C, R]) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		c.decorators = append(c.decorators, decorators...)
	}
}

func defaultErrorHandler[C Context](ctx C, err error) {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		http.Error(ctx.ResponseWriter(), httpErr.Key, httpErr.Code)
		return
	}
	http.Error(ctx.ResponseWriter(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func newContext[C Context](w http.ResponseWriter, r *http.Request) C {
	c, ok := NewContext(w, r).(C)
	if !ok {
		panic("handler: C must be satisfied by the context returned from NewContext")
	}
	return c
}

// Wrap converts a typed HandlerFunc to http.HandlerFunc. Per request it builds
// the context, runs the binders into a zero R, calls the decorated handler and
// renders the Response. A nil Response is reported as ErrNilResponse.
// Without WithErrorHandler, errors are written as plain text using the
// HTTPError key and status, or 500.
func Wrap[C Context, R any](h HandlerFunc[C, R], opts ...WrapOption[C, R]) http.HandlerFunc {
	cfg := &wrapConfig[C, R]{errorHandler: defaultErrorHandler[C]}
	for _, opt := range opts {
		opt(cfg)
	}

	final := h
	for i := len(cfg.decorators) - 1; i >= 0; i-- {
		final = cfg.decorators[i](final)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := newContext[C](w, r)

		var req R
		for _, bind := range cfg.binders {
			if err := bind(r, &req); err != nil {
				if errors.Is(err, binder.ErrBinderNotApplicable) {
					continue
				}
				cfg.errorHandler(ctx, err)
				return
			}
		}

		resp := final(ctx, req)
		if resp == nil {
			cfg.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := resp.Render(w, r); err != nil {
			cfg.errorHandler(ctx, err)
		}
	}
}
