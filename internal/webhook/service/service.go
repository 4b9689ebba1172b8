// Package service emits signed webhook events for screening records and
// verifies webhooks received from the screening provider.
//
// The event log is the record of what was emitted. Publishing to the sink is
// best effort: a sink failure is logged and counted but never fails Emit.
package service

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"warden/internal/screening/models"
	"warden/internal/webhook/metrics"
	"warden/internal/webhook/signing"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
	audit "warden/pkg/platform/audit"
	"warden/pkg/platform/circuit"
	"warden/pkg/requestcontext"
)

var tracer = otel.Tracer("warden/internal/webhook/service")

// RecordSource loads the record an event describes. It returns a
// CodeNotFound domain error for unknown records.
type RecordSource interface {
	GetRecord(ctx context.Context, resultID id.ResultID) (*models.ScreeningRecord, error)
}

// EventLog keeps emitted events.
type EventLog interface {
	Append(ctx context.Context, ev signing.Event) error
	List(ctx context.Context, limit int) ([]signing.Event, error)
	Count(ctx context.Context) (int, error)
	Reset(ctx context.Context) error
}

// Publisher delivers an event to a downstream sink.
type Publisher interface {
	Publish(ctx context.Context, ev signing.Event) error
}

// OpsTracker records sampled operational audit events.
type OpsTracker interface {
	Track(ctx context.Context, event audit.OpsEvent)
}

// EmitOptions are the caller-supplied extras for one event.
type EmitOptions struct {
	DecisionTags []string
}

// defaultRetryEvery is how many emits pass between publish attempts while
// the sink circuit is open.
const defaultRetryEvery = 10

type Emitter struct {
	records   RecordSource
	log       EventLog
	cfg       signing.Config
	publisher Publisher
	breaker   *circuit.Breaker
	tracker   OpsTracker
	logger    *slog.Logger
	metrics   *metrics.Metrics
	newID     func() string

	retryEvery int64
	skipped    atomic.Int64
}

type Option func(*Emitter)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Emitter) { e.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Emitter) { e.metrics = m }
}

// WithPublisher enables delivery to a sink behind b. A nil breaker gets the
// default thresholds.
func WithPublisher(p Publisher, b *circuit.Breaker) Option {
	return func(e *Emitter) {
		e.publisher = p
		e.breaker = b
	}
}

func WithTracker(t OpsTracker) Option {
	return func(e *Emitter) { e.tracker = t }
}

// WithRetryEvery sets how many emits are skipped between publish attempts
// while the sink circuit is open.
func WithRetryEvery(n int) Option {
	return func(e *Emitter) {
		if n > 0 {
			e.retryEvery = int64(n)
		}
	}
}

// WithIDGenerator replaces the event ID source.
func WithIDGenerator(fn func() string) Option {
	return func(e *Emitter) { e.newID = fn }
}

// New validates cfg up front so a misconfigured server fails at startup
// rather than on the first emit.
func New(records RecordSource, log EventLog, cfg signing.Config, opts ...Option) (*Emitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Emitter{
		records:    records,
		log:        log,
		cfg:        cfg,
		logger:     slog.Default(),
		newID:      uuid.NewString,
		retryEvery: defaultRetryEvery,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.publisher != nil && e.breaker == nil {
		e.breaker = circuit.New("webhook-sink")
	}
	return e, nil
}

// Emit builds the payload for the record's current state, signs it, appends
// it to the log and hands it to the sink.
func (e *Emitter) Emit(ctx context.Context, resultID id.ResultID, trigger signing.EventType, opts EmitOptions) (*signing.Event, error) {
	ctx, span := tracer.Start(ctx, "webhook.Emit", trace.WithSpanKind(trace.SpanKindProducer))
	defer span.End()
	span.SetAttributes(
		attribute.Int64("result_id", int64(resultID)),
		attribute.String("trigger", string(trigger)),
	)

	if trigger == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "eventType is required")
	}
	rec, err := e.records.GetRecord(ctx, resultID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	ts := requestcontext.Now(ctx).UTC()
	payload := signing.NewPayload(rec, trigger, opts.DecisionTags, ts)
	ev, err := signing.NewEvent(e.newID(), trigger, payload, e.cfg, ts)
	if err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "sign webhook event")
	}
	if err := e.log.Append(ctx, ev); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "event log append failed")
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "webhook event log unavailable")
	}

	e.publish(ctx, ev)
	e.metrics.IncEmitted(payload.EventType)
	e.track(ctx, "record:"+resultID.String(), audit.EventWebhookEmitted)
	e.logger.InfoContext(ctx, "webhook event emitted",
		"request_id", requestcontext.RequestID(ctx),
		"event_id", ev.ID,
		"result_id", resultID,
		"event_type", payload.EventType,
	)
	return &ev, nil
}

func (e *Emitter) publish(ctx context.Context, ev signing.Event) {
	if e.publisher == nil {
		return
	}
	if e.breaker.IsOpen() && e.skipped.Add(1)%e.retryEvery != 0 {
		e.metrics.IncPublished(metrics.PublishSkipped)
		return
	}

	if err := e.publisher.Publish(ctx, ev); err != nil {
		open, change := e.breaker.RecordFailure()
		e.metrics.IncPublished(metrics.PublishFailed)
		e.metrics.SetSinkOpen(open)
		e.logger.WarnContext(ctx, "webhook sink publish failed",
			"request_id", requestcontext.RequestID(ctx),
			"event_id", ev.ID,
			"circuit_opened", change.Opened,
			"error", err,
		)
		return
	}
	closed, change := e.breaker.RecordSuccess()
	e.metrics.IncPublished(metrics.PublishOK)
	e.metrics.SetSinkOpen(!closed)
	if change.Closed {
		e.skipped.Store(0)
		e.logger.InfoContext(ctx, "webhook sink recovered",
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

// Verify checks a received webhook against the configured secret, host and
// path. A mismatch is reported in the result, not as an error.
func (e *Emitter) Verify(ctx context.Context, body []byte, headers signing.Headers) (*signing.Verification, error) {
	_, span := tracer.Start(ctx, "webhook.Verify")
	defer span.End()

	v, err := signing.Verify(body, headers, e.cfg)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Bool("valid", v.Valid))
	e.metrics.IncVerification(v.Valid, v.Reason)
	e.track(ctx, "webhook", audit.EventWebhookVerified)
	if !v.Valid {
		e.logger.WarnContext(ctx, "webhook verification failed",
			"request_id", requestcontext.RequestID(ctx),
			"reason", v.Reason,
		)
	}
	return &v, nil
}

// Log returns up to limit of the newest events in emission order.
func (e *Emitter) Log(ctx context.Context, limit int) ([]signing.Event, error) {
	events, err := e.log.List(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "webhook event log unavailable")
	}
	return events, nil
}

func (e *Emitter) Count(ctx context.Context) (int, error) {
	n, err := e.log.Count(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "webhook event log unavailable")
	}
	return n, nil
}

// Reset clears the event log. The sink is not touched.
func (e *Emitter) Reset(ctx context.Context) error {
	if err := e.log.Reset(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "webhook event log unavailable")
	}
	return nil
}

func (e *Emitter) track(ctx context.Context, subject string, action audit.AuditEvent) {
	if e.tracker == nil {
		return
	}
	e.tracker.Track(ctx, audit.OpsEvent{
		Subject:   subject,
		Action:    action,
		RequestID: requestcontext.RequestID(ctx),
	})
}
