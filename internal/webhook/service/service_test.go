package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"warden/internal/screening/models"
	"warden/internal/webhook/signing"
	"warden/internal/webhook/store"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
	audit "warden/pkg/platform/audit"
	"warden/pkg/platform/circuit"
	"warden/pkg/requestcontext"
)

var fixedNow = time.Date(2026, 2, 12, 8, 30, 0, 0, time.UTC)

var testConfig = signing.Config{Secret: "s3cret", Host: "bank.example.com:443", Path: "/api/webhook"}

type recordSource map[id.ResultID]*models.ScreeningRecord

func (r recordSource) GetRecord(_ context.Context, resultID id.ResultID) (*models.ScreeningRecord, error) {
	rec, ok := r[resultID]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("record %d not found", resultID))
	}
	return rec, nil
}

type recordingTracker struct {
	mu     sync.Mutex
	events []audit.OpsEvent
}

func (t *recordingTracker) Track(_ context.Context, ev audit.OpsEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, ev)
}

type stubPublisher struct {
	calls int
	err   error
}

func (p *stubPublisher) Publish(context.Context, signing.Event) error {
	p.calls++
	return p.err
}

type EmitterSuite struct {
	suite.Suite
	log     *store.InMemoryStore
	tracker *recordingTracker
	emitter *Emitter
	ctx     context.Context
}

func TestEmitterSuite(t *testing.T) {
	suite.Run(t, new(EmitterSuite))
}

func closedRecord() *models.ScreeningRecord {
	rec := models.NewScreeningRecord(models.NewRecordParams{
		ResultID:   200001,
		RunID:      100001,
		Entity:     models.InputEntity{Name: models.FullName("Mikhail Petrov")},
		Matches:    []models.MatchResult{{WatchlistEntryID: "WL-001", Score: 100}},
		Assignment: models.DefaultAssignment(),
		Now:        fixedNow.Add(-time.Hour),
	})
	rec.State.Apply(models.StatePatch{
		AlertState: models.Some(models.AlertClosed),
		Note:       models.Some("false positive"),
	}, fixedNow.Add(-time.Minute), models.DefaultReviewer)
	return rec
}

func (s *EmitterSuite) newEmitter(opts ...Option) *Emitter {
	opts = append([]Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithTracker(s.tracker),
		WithIDGenerator(func() string { return "evt-1" }),
	}, opts...)
	e, err := New(recordSource{200001: closedRecord()}, s.log, testConfig, opts...)
	s.Require().NoError(err)
	return e
}

func (s *EmitterSuite) SetupTest() {
	s.log = store.NewInMemory(0)
	s.tracker = &recordingTracker{}
	s.emitter = s.newEmitter()
	s.ctx = requestcontext.WithRequestID(requestcontext.WithTime(context.Background(), fixedNow), "req-1")
}

func (s *EmitterSuite) TestNewRequiresSigningConfig() {
	_, err := New(recordSource{}, s.log, signing.Config{Secret: "x", Host: "h"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidConfiguration))
}

func (s *EmitterSuite) TestEmit() {
	s.Run("signs the record's current state and logs it", func() {
		ev, err := s.emitter.Emit(s.ctx, 200001, signing.AlertStateClosed, EmitOptions{DecisionTags: []string{"FalsePositive"}})
		s.Require().NoError(err)

		s.Equal("evt-1", ev.ID)
		s.Equal("AlertClosed", ev.Payload.EventType)
		s.Equal("Closed", ev.Payload.State)
		s.Equal(1, ev.Payload.Note)
		s.Equal([]string{"FalsePositive"}, ev.Payload.DecisionTags)
		s.Equal("2026-02-12T08:30:00.000Z", ev.Payload.DateModified)
		s.Equal("2026-02-12T07:30:00.000Z", ev.Payload.DateCreated)
		s.Equal("Thu, 12 Feb 2026 08:30:00 GMT", ev.Headers.Date)

		v, err := signing.Verify([]byte(ev.PayloadJSON), ev.Headers, testConfig)
		s.Require().NoError(err)
		s.True(v.Valid)

		logged, err := s.emitter.Log(s.ctx, 0)
		s.Require().NoError(err)
		s.Require().Len(logged, 1)
		s.Equal(ev.Signature, logged[0].Signature)

		s.Require().Len(s.tracker.events, 1)
		s.Equal(audit.EventWebhookEmitted, s.tracker.events[0].Action)
		s.Equal("record:200001", s.tracker.events[0].Subject)
		s.Equal("req-1", s.tracker.events[0].RequestID)
	})

	s.Run("any other trigger is a decision event", func() {
		ev, err := s.emitter.Emit(s.ctx, 200001, "SomethingElse", EmitOptions{})
		s.Require().NoError(err)
		s.Equal("AlertDecisionApplied", ev.Payload.EventType)
		s.Nil(ev.Payload.DecisionTags)
	})

	s.Run("unknown record", func() {
		before, _ := s.emitter.Count(s.ctx)
		_, err := s.emitter.Emit(s.ctx, 999, signing.AlertStateClosed, EmitOptions{})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		after, _ := s.emitter.Count(s.ctx)
		s.Equal(before, after)
	})

	s.Run("missing trigger", func() {
		_, err := s.emitter.Emit(s.ctx, 200001, "", EmitOptions{})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *EmitterSuite) TestSinkFailuresNeverFailEmit() {
	pub := &stubPublisher{err: errors.New("broker down")}
	breaker := circuit.New("test-sink", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(1))
	e := s.newEmitter(WithPublisher(pub, breaker), WithRetryEvery(3))

	for range 5 {
		_, err := e.Emit(s.ctx, 200001, signing.AlertStateClosed, EmitOptions{})
		s.Require().NoError(err)
	}
	s.True(breaker.IsOpen())
	s.Equal(3, pub.calls, "two failures open the circuit, then one retry per three emits")

	pub.err = nil
	for range 3 {
		_, err := e.Emit(s.ctx, 200001, signing.AlertStateClosed, EmitOptions{})
		s.Require().NoError(err)
	}
	s.False(breaker.IsOpen(), "a successful retry closes the circuit")
	s.Equal(4, pub.calls)

	_, err := e.Emit(s.ctx, 200001, signing.AlertStateClosed, EmitOptions{})
	s.Require().NoError(err)
	s.Equal(5, pub.calls)

	n, err := e.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(9, n, "every emit is logged regardless of the sink")
}

func (s *EmitterSuite) TestVerify() {
	ev, err := s.emitter.Emit(s.ctx, 200001, signing.AlertStateClosed, EmitOptions{})
	s.Require().NoError(err)

	v, err := s.emitter.Verify(s.ctx, []byte(ev.PayloadJSON), ev.Headers)
	s.Require().NoError(err)
	s.True(v.Valid)
	s.Len(v.Steps, 4)

	v, err = s.emitter.Verify(s.ctx, []byte(ev.PayloadJSON+" "), ev.Headers)
	s.Require().NoError(err)
	s.False(v.Valid)
	s.Equal(signing.ReasonContentHashMismatch, v.Reason)

	s.Equal(audit.EventWebhookVerified, s.tracker.events[len(s.tracker.events)-1].Action)
}

func (s *EmitterSuite) TestReset() {
	_, err := s.emitter.Emit(s.ctx, 200001, signing.AlertStateClosed, EmitOptions{})
	s.Require().NoError(err)
	s.Require().NoError(s.emitter.Reset(s.ctx))

	n, err := s.emitter.Count(s.ctx)
	s.Require().NoError(err)
	s.Zero(n)
}
