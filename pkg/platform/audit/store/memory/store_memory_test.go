package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "warden/pkg/platform/audit"
)

func TestListOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	base := time.Date(2026, 2, 12, 8, 0, 0, 0, time.UTC)
	for i, subject := range []string{"record:1", "record:2", "record:1"} {
		require.NoError(t, s.Append(ctx, audit.Event{Subject: subject, Action: "state_applied", Timestamp: base.Add(time.Duration(i) * time.Minute)}))
	}

	bySubject, err := s.ListBySubject(ctx, "record:1")
	require.NoError(t, err)
	require.Len(t, bySubject, 2)
	assert.True(t, bySubject[0].Timestamp.After(bySubject[1].Timestamp))

	recent, err := s.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "record:1", recent[0].Subject)
	assert.Equal(t, "record:2", recent[1].Subject)

	s.Clear()
	recent, err = s.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
