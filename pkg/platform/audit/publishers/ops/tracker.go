// Package ops records routine audit events without blocking callers.
//
// Track samples the event, queues it and returns. A background worker writes
// queued events to the store; a circuit breaker skips writes while the store
// is failing. Events are dropped, never retried.
package ops

import (
	"context"
	"log/slog"
	"sync"
	"time"

	audit "warden/pkg/platform/audit"
	"warden/pkg/platform/audit/worker"
)

const defaultQueueSize = 1024

// Tracker is a fire-and-forget ops event emitter.
type Tracker struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
	sampler *Sampler
	breaker *CircuitBreaker
	now     func() time.Time

	queueSize int
	queue     chan audit.Event
	done      chan struct{}
	closeOnce sync.Once
}

type Option func(*Tracker)

func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) { t.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(t *Tracker) { t.metrics = m }
}

func WithSampler(s *Sampler) Option {
	return func(t *Tracker) { t.sampler = s }
}

func WithCircuitBreaker(cb *CircuitBreaker) Option {
	return func(t *Tracker) { t.breaker = cb }
}

func WithQueueSize(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.queueSize = n
		}
	}
}

// New starts the background writer. Call Close to drain and stop it.
func New(store audit.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:     store,
		sampler:   NewSampler(1),
		breaker:   NewCircuitBreaker(0, 0),
		now:       time.Now,
		queueSize: defaultQueueSize,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.queue = make(chan audit.Event, t.queueSize)

	w := worker.NewWorker(t.queue, t.persist)
	go func() {
		defer close(t.done)
		_ = w.Run(context.Background())
	}()
	return t
}

// Track queues the event if it survives sampling and the queue has room.
func (t *Tracker) Track(ctx context.Context, event audit.OpsEvent) {
	if !t.sampler.ShouldSample(event.Action) {
		t.metrics.IncSampled()
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = t.now()
	}
	select {
	case t.queue <- event.ToEvent():
	default:
		t.metrics.IncDropped()
		if t.logger != nil {
			t.logger.WarnContext(ctx, "ops audit queue full, event dropped",
				"action", event.Action,
				"request_id", event.RequestID,
			)
		}
	}
}

func (t *Tracker) persist(ctx context.Context, event audit.Event) {
	if !t.breaker.Allow() {
		t.metrics.IncCircuitBreakerDropped()
		return
	}
	if err := t.store.Append(ctx, event); err != nil {
		t.metrics.IncPersistFailures()
		open := t.breaker.RecordFailure()
		t.metrics.SetCircuitBreakerState(open)
		if t.logger != nil {
			t.logger.WarnContext(ctx, "ops audit write failed",
				"action", event.Action,
				"circuit_open", open,
				"error", err,
			)
		}
		return
	}
	t.breaker.RecordSuccess()
	t.metrics.SetCircuitBreakerState(false)
	t.metrics.IncTracked()
}

// Close stops accepting events and waits for queued ones to be written.
// Track must not be called after Close.
func (t *Tracker) Close() {
	t.closeOnce.Do(func() {
		close(t.queue)
	})
	<-t.done
}
