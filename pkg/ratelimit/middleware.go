package ratelimit

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/orggate/pkg/clientip"
	"github.com/dmitrymomot/orggate/pkg/logger"
)

// KeyFunc derives the rate limit key of a request. An empty key skips limiting.
type KeyFunc func(*http.Request) string

// ByClientIP keys requests by the IP stored by clientip.Middleware, prefixed
// with scope so separate routes keep separate allowances.
func ByClientIP(scope string) KeyFunc {
	return func(r *http.Request) string {
		ip := clientip.FromContext(r.Context())
		if ip == "" {
			return ""
		}
		return scope + ":" + ip
	}
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middleware)

type middleware struct {
	limiter *Limiter
	keyFunc KeyFunc
	log     *slog.Logger
	reject  http.HandlerFunc
}

// WithLogger sets the logger for store failures and rejections.
func WithLogger(l *slog.Logger) MiddlewareOption {
	return func(m *middleware) {
		if l != nil {
			m.log = l
		}
	}
}

// WithRejectHandler replaces the plain text 429 response.
func WithRejectHandler(h http.HandlerFunc) MiddlewareOption {
	return func(m *middleware) {
		if h != nil {
			m.reject = h
		}
	}
}

// Middleware enforces limiter per key. Rate limit headers are set on every
// limited response; store errors let the request through.
func Middleware(limiter *Limiter, keyFunc KeyFunc, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	m := &middleware{
		limiter: limiter,
		keyFunc: keyFunc,
		log:     logger.Noop(),
		reject: func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		},
	}
	for _, opt := range opts {
		opt(m)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := m.keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			res, err := m.limiter.Allow(r.Context(), key)
			if err != nil {
				m.log.WarnContext(r.Context(), "rate limit check failed, allowing request",
					logger.Error(err),
					logger.Component("ratelimit"),
				)
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed {
				retry := math.Ceil(res.RetryAfter(m.limiter.now()).Seconds())
				h.Set("Retry-After", strconv.Itoa(max(int(retry), 1)))
				m.log.InfoContext(r.Context(), "rate limit exceeded",
					slog.String("key", key),
					logger.Component("ratelimit"),
				)
				m.reject(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
