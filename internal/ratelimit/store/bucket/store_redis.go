package bucket

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"warden/internal/ratelimit/models"
)

// RedisBucketStore keeps each window in a sorted set scored by request time
// in microseconds, so every instance shares the same counters.
type RedisBucketStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisBucketStore(client *redis.Client) *RedisBucketStore {
	return &RedisBucketStore{client: client, now: time.Now}
}

// AllowN trims expired entries and counts under WATCH, then adds cost
// members in a MULTI/EXEC. A concurrent writer on the same key makes the
// transaction fail with redis.TxFailedErr, and the check is retried.
func (s *RedisBucketStore) AllowN(ctx context.Context, key string, cost, limit int, window time.Duration) (*models.Result, error) {
	const maxAttempts = 3
	var (
		res *models.Result
		err error
	)
	for range maxAttempts {
		res, err = s.allowOnce(ctx, key, cost, limit, window)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("rate limit %s: %w", key, err)
	}
	return res, nil
}

func (s *RedisBucketStore) allowOnce(ctx context.Context, key string, cost, limit int, window time.Duration) (*models.Result, error) {
	var res *models.Result
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		now := s.now()
		cutoff := now.Add(-window).UnixMicro()
		if err := tx.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(cutoff, 10)).Err(); err != nil {
			return err
		}
		count, err := tx.ZCard(ctx, key).Result()
		if err != nil {
			return err
		}
		oldest := now
		if count > 0 {
			first, err := tx.ZRangeWithScores(ctx, key, 0, 0).Result()
			if err != nil {
				return err
			}
			if len(first) == 1 {
				oldest = time.UnixMicro(int64(first[0].Score))
			}
		}

		if int(count)+cost > limit {
			resetAt := oldest.Add(window)
			res = &models.Result{
				Allowed:    false,
				Limit:      limit,
				Remaining:  max(0, limit-int(count)),
				ResetAt:    resetAt,
				RetryAfter: retryAfter(now, resetAt),
			}
			return nil
		}

		score := float64(now.UnixMicro())
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for range cost {
				pipe.ZAdd(ctx, key, redis.Z{Score: score, Member: uuid.NewString()})
			}
			pipe.PExpire(ctx, key, window)
			return nil
		})
		if err != nil {
			return err
		}
		res = &models.Result{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit - int(count) - cost,
			ResetAt:   oldest.Add(window),
		}
		return nil
	}, key)
	return res, err
}

func (s *RedisBucketStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
