package compliance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "warden/pkg/platform/audit"
	"warden/pkg/platform/audit/store/memory"
)

type failingStore struct {
	audit.Store
	err error
}

func (f failingStore) Append(context.Context, audit.Event) error { return f.err }

func TestEmitPersistsEvent(t *testing.T) {
	store := memory.NewInMemoryStore()
	fixed := time.Date(2026, 2, 12, 9, 30, 0, 0, time.UTC)
	pub := New(store, WithClock(func() time.Time { return fixed }))

	err := pub.Emit(context.Background(), audit.ComplianceEvent{
		Subject:  "record:200001",
		Action:   audit.EventStateApplied,
		Actor:    "analyst-7",
		Decision: "Closed",
	})
	require.NoError(t, err)

	events, err := store.ListBySubject(context.Background(), "record:200001")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.CategoryCompliance, events[0].Category)
	assert.Equal(t, "state_applied", events[0].Action)
	assert.Equal(t, "analyst-7", events[0].Actor)
	assert.Equal(t, fixed, events[0].Timestamp)
}

func TestEmitRejectsIncompleteEvents(t *testing.T) {
	pub := New(memory.NewInMemoryStore())

	err := pub.Emit(context.Background(), audit.ComplianceEvent{Subject: "record:1"})
	assert.Error(t, err)

	err = pub.Emit(context.Background(), audit.ComplianceEvent{Action: audit.EventStoreReset})
	assert.Error(t, err)
}

func TestEmitFailsClosed(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	boom := errors.New("disk full")
	pub := New(failingStore{err: boom}, WithMetrics(m))

	err := pub.Emit(context.Background(), audit.ComplianceEvent{Subject: "record:1", Action: audit.EventDecisionApplied})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistFailures))
}
