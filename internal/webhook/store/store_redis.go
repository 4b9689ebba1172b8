package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"warden/internal/webhook/signing"
)

const defaultKey = "warden:webhook:events"

// RedisStore keeps the log in a single capped Redis list so every instance
// sees the same events.
type RedisStore struct {
	client   *redis.Client
	key      string
	capacity int
}

type RedisOption func(*RedisStore)

// WithKey overrides the list key.
func WithKey(key string) RedisOption {
	return func(s *RedisStore) {
		if key != "" {
			s.key = key
		}
	}
}

// WithCapacity bounds the list length.
func WithCapacity(n int) RedisOption {
	return func(s *RedisStore) {
		if n > 0 {
			s.capacity = n
		}
	}
}

func NewRedis(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, key: defaultKey, capacity: DefaultCapacity}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Append pushes and trims in one MULTI/EXEC so the list never exceeds capacity.
func (s *RedisStore) Append(ctx context.Context, ev signing.Event) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal webhook event: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, s.key, raw)
		pipe.LTrim(ctx, s.key, int64(-s.capacity), -1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("append webhook event: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, limit int) ([]signing.Event, error) {
	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}
	raws, err := s.client.LRange(ctx, s.key, start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list webhook events: %w", err)
	}
	events := make([]signing.Event, 0, len(raws))
	for _, raw := range raws {
		var ev signing.Event
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			return nil, fmt.Errorf("decode webhook event: %w", err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func (s *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.LLen(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("count webhook events: %w", err)
	}
	return int(n), nil
}

func (s *RedisStore) Reset(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("reset webhook events: %w", err)
	}
	return nil
}
