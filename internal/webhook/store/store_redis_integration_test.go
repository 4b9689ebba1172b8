//go:build integration

package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"warden/internal/webhook/signing"
	"warden/internal/webhook/store"
	"warden/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = store.NewRedis(s.redis.Client, store.WithCapacity(3))
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) append(n int) {
	ev := signing.Event{
		ID:          fmt.Sprintf("evt-%d", n),
		ResultID:    200001,
		Trigger:     signing.AlertDecisionApplied,
		PayloadJSON: `{"ResultId":200001}`,
		Signature:   "sig",
	}
	s.Require().NoError(s.store.Append(context.Background(), ev))
}

func (s *RedisStoreSuite) TestRoundTripAndCap() {
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		s.append(i)
	}

	n, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.Equal(3, n)

	all, err := s.store.List(ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("evt-3", all[0].ID)
	s.Equal("evt-5", all[2].ID)
	s.Equal(`{"ResultId":200001}`, all[2].PayloadJSON)
	s.Equal(signing.AlertDecisionApplied, all[2].Trigger)

	newest, err := s.store.List(ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(newest, 1)
	s.Equal("evt-5", newest[0].ID)
}

func (s *RedisStoreSuite) TestReset() {
	ctx := context.Background()
	s.append(1)
	s.Require().NoError(s.store.Reset(ctx))

	all, err := s.store.List(ctx, 0)
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *RedisStoreSuite) TestKeysAreIsolated() {
	ctx := context.Background()
	other := store.NewRedis(s.redis.Client, store.WithKey("tenant-b:webhook:events"))
	s.append(1)

	n, err := other.Count(ctx)
	s.Require().NoError(err)
	s.Zero(n)
	s.Require().NoError(other.Reset(ctx))

	n, err = s.store.Count(ctx)
	s.Require().NoError(err)
	s.Equal(1, n)
}
