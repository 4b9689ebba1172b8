package bucket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	testLimit  = 5
	testWindow = time.Minute
)

type InMemoryBucketStoreSuite struct {
	suite.Suite
	store *InMemoryBucketStore
	now   time.Time
	ctx   context.Context
}

func TestInMemoryBucketStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryBucketStoreSuite))
}

func (s *InMemoryBucketStoreSuite) SetupTest() {
	s.now = time.Date(2026, 2, 12, 8, 30, 0, 0, time.UTC)
	s.store = NewInMemoryBucketStore()
	s.store.now = func() time.Time { return s.now }
	s.ctx = context.Background()
}

func (s *InMemoryBucketStoreSuite) TestAllowN() {
	s.Run("first request allowed", func() {
		res, err := s.store.AllowN(s.ctx, "k:first", 1, testLimit, testWindow)
		s.Require().NoError(err)
		s.True(res.Allowed)
		s.Equal(testLimit, res.Limit)
		s.Equal(testLimit-1, res.Remaining)
		s.Equal(s.now.Add(testWindow), res.ResetAt)
		s.Zero(res.RetryAfter)
	})

	s.Run("over limit denied without consuming", func() {
		for range testLimit {
			res, err := s.store.AllowN(s.ctx, "k:over", 1, testLimit, testWindow)
			s.Require().NoError(err)
			s.True(res.Allowed)
		}
		res, err := s.store.AllowN(s.ctx, "k:over", 1, testLimit, testWindow)
		s.Require().NoError(err)
		s.False(res.Allowed)
		s.Equal(0, res.Remaining)
		s.Equal(60, res.RetryAfter)
		s.Len(s.store.buckets["k:over"].timestamps, testLimit)
	})

	s.Run("cost larger than remaining denied", func() {
		_, err := s.store.AllowN(s.ctx, "k:cost", 4, testLimit, testWindow)
		s.Require().NoError(err)
		res, err := s.store.AllowN(s.ctx, "k:cost", 2, testLimit, testWindow)
		s.Require().NoError(err)
		s.False(res.Allowed)
		s.Equal(1, res.Remaining)
	})

	s.Run("keys are independent", func() {
		for range testLimit {
			_, _ = s.store.AllowN(s.ctx, "k:a", 1, testLimit, testWindow)
		}
		res, err := s.store.AllowN(s.ctx, "k:b", 1, testLimit, testWindow)
		s.Require().NoError(err)
		s.True(res.Allowed)
	})
}

func (s *InMemoryBucketStoreSuite) TestWindowSlides() {
	for range testLimit {
		_, err := s.store.AllowN(s.ctx, "k:slide", 1, testLimit, testWindow)
		s.Require().NoError(err)
	}

	s.now = s.now.Add(30 * time.Second)
	res, err := s.store.AllowN(s.ctx, "k:slide", 1, testLimit, testWindow)
	s.Require().NoError(err)
	s.False(res.Allowed)
	s.Equal(30, res.RetryAfter)

	s.now = s.now.Add(30 * time.Second)
	res, err = s.store.AllowN(s.ctx, "k:slide", 1, testLimit, testWindow)
	s.Require().NoError(err)
	s.True(res.Allowed)
	s.Equal(testLimit-1, res.Remaining)
}

func (s *InMemoryBucketStoreSuite) TestReset() {
	for range testLimit {
		_, _ = s.store.AllowN(s.ctx, "k:reset", 1, testLimit, testWindow)
	}
	s.Require().NoError(s.store.Reset(s.ctx, "k:reset"))

	res, err := s.store.AllowN(s.ctx, "k:reset", 1, testLimit, testWindow)
	s.Require().NoError(err)
	s.True(res.Allowed)
}

func (s *InMemoryBucketStoreSuite) TestConcurrentCallersNeverExceedLimit() {
	const callers = 50
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.store.AllowN(s.ctx, "k:race", 1, testLimit, testWindow)
			if err == nil && res.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	s.Equal(testLimit, allowed)
}
