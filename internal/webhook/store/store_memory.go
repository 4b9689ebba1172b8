// Package store keeps the log of emitted webhook events.
//
// Both stores hold at most a fixed number of events and evict the oldest
// first. List returns the newest events in emission order.
package store

import (
	"context"
	"slices"
	"sync"

	"warden/internal/webhook/signing"
)

// DefaultCapacity bounds the log when no capacity is given.
const DefaultCapacity = 1000

type InMemoryStore struct {
	mu       sync.RWMutex
	events   []signing.Event
	capacity int
}

func NewInMemory(capacity int) *InMemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &InMemoryStore{capacity: capacity}
}

func (s *InMemoryStore) Append(_ context.Context, ev signing.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	if over := len(s.events) - s.capacity; over > 0 {
		s.events = slices.Delete(s.events, 0, over)
	}
	return nil
}

// List returns up to limit of the newest events, oldest first. A limit of
// zero or less returns the whole log.
func (s *InMemoryStore) List(_ context.Context, limit int) ([]signing.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := 0
	if limit > 0 && limit < len(s.events) {
		start = len(s.events) - limit
	}
	return slices.Clone(s.events[start:]), nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events), nil
}

func (s *InMemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	return nil
}
