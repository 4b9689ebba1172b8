//go:build integration

package bucket_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"warden/internal/ratelimit/store/bucket"
	"warden/pkg/testutil/containers"
)

type RedisBucketStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *bucket.RedisBucketStore
}

func TestRedisBucketStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisBucketStoreSuite))
}

func (s *RedisBucketStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = bucket.NewRedisBucketStore(s.redis.Client)
}

func (s *RedisBucketStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisBucketStoreSuite) TestLimitAndReset() {
	ctx := context.Background()
	for i := range 3 {
		res, err := s.store.AllowN(ctx, "rl:actor:alice", 1, 3, time.Minute)
		s.Require().NoError(err)
		s.True(res.Allowed)
		s.Equal(2-i, res.Remaining)
	}

	res, err := s.store.AllowN(ctx, "rl:actor:alice", 1, 3, time.Minute)
	s.Require().NoError(err)
	s.False(res.Allowed)
	s.GreaterOrEqual(res.RetryAfter, 1)

	s.Require().NoError(s.store.Reset(ctx, "rl:actor:alice"))
	res, err = s.store.AllowN(ctx, "rl:actor:alice", 1, 3, time.Minute)
	s.Require().NoError(err)
	s.True(res.Allowed)
}

func (s *RedisBucketStoreSuite) TestConcurrentCallersShareCounter() {
	ctx := context.Background()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.store.AllowN(ctx, "rl:ip:10.0.0.1", 1, 5, time.Minute)
			if err == nil && res.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	s.LessOrEqual(allowed, 5)
	s.Positive(allowed)
}
