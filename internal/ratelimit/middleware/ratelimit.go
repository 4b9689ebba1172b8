// Package middleware limits API requests per reviewer or client IP.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"warden/internal/ratelimit/metrics"
	"warden/internal/ratelimit/models"
	"warden/pkg/platform/httputil"
	"warden/pkg/requestcontext"
)

// BucketStore counts requests in a sliding window.
type BucketStore interface {
	AllowN(ctx context.Context, key string, cost, limit int, window time.Duration) (*models.Result, error)
}

type Middleware struct {
	store   BucketStore
	limit   int
	window  time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Middleware)

func WithMetrics(m *metrics.Metrics) Option {
	return func(mw *Middleware) { mw.metrics = m }
}

// New allows limit requests per window per caller.
func New(store BucketStore, limit int, window time.Duration, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{store: store, limit: limit, window: window, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RateLimit keys on the authenticated actor when there is one, otherwise on
// the client IP. It must run after auth and client metadata middleware. A
// store error lets the request through.
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		kind, key := "ip", models.KeyPrefixIP+requestcontext.ClientIP(ctx)
		if actor := requestcontext.Actor(ctx); actor != "" {
			kind, key = "actor", models.KeyPrefixActor+actor
		}

		result, err := m.store.AllowN(ctx, key, 1, m.limit, m.window)
		if err != nil {
			m.metrics.IncStoreErrors()
			m.logger.ErrorContext(ctx, "rate limit check failed",
				"request_id", requestcontext.RequestID(ctx),
				"kind", kind,
				"error", err,
			)
			next.ServeHTTP(w, r)
			return
		}
		m.metrics.IncDecision(kind, result.Allowed)

		addRateLimitHeaders(w, result)
		if !result.Allowed {
			m.logger.WarnContext(ctx, "rate limit exceeded",
				"request_id", requestcontext.RequestID(ctx),
				"kind", kind,
			)
			writeRateLimitExceeded(w, result)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.ExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    "Too many requests. Please try again later.",
		RetryAfter: result.RetryAfter,
	})
}
