//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	audit "warden/pkg/platform/audit"
	"warden/pkg/platform/audit/store/postgres"
	txcontext "warden/pkg/platform/tx"
	"warden/pkg/testutil/containers"
)

type AuditStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestAuditStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(AuditStoreSuite))
}

func (s *AuditStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = postgres.New(s.postgres.DB)
}

func (s *AuditStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_events"))
}

func (s *AuditStoreSuite) TestAppendAndList() {
	ctx := context.Background()
	base := time.Date(2026, 2, 12, 8, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.Append(ctx, audit.Event{
		Timestamp: base, Subject: "record:200001", Action: string(audit.EventStateApplied), Actor: "analyst-7",
		ClientIP: "10.0.0.1", ClientAgent: "Firefox 121.0 on Linux x86_64",
	}))
	s.Require().NoError(s.store.Append(ctx, audit.Event{
		Timestamp: base.Add(time.Minute), Subject: "event:1", Action: string(audit.EventWebhookEmitted),
	}))

	events, err := s.store.ListBySubject(ctx, "record:200001")
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(audit.CategoryCompliance, events[0].Category, "category derived from action")
	s.Equal("analyst-7", events[0].Actor)
	s.Equal("Firefox 121.0 on Linux x86_64", events[0].ClientAgent)

	recent, err := s.store.ListRecent(ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(recent, 1)
	s.Equal("event:1", recent[0].Subject)
	s.Equal(audit.CategoryOperations, recent[0].Category)
}

func (s *AuditStoreSuite) TestAppendRollsBackWithTransaction() {
	ctx := context.Background()
	rollback := errors.New("rollback")
	err := txcontext.Run(ctx, s.postgres.DB, func(ctx context.Context) error {
		s.Require().NoError(s.store.Append(ctx, audit.Event{Timestamp: time.Now(), Subject: "record:1", Action: "state_applied"}))
		return rollback
	})
	s.ErrorIs(err, rollback)

	events, err := s.store.ListBySubject(ctx, "record:1")
	s.Require().NoError(err)
	s.Empty(events)
}
