// Package store persists screening runs and records.
//
// Error contract: every store returns sentinel.ErrNotFound (wrapped) when a
// run or record does not exist, and wrapped infrastructure errors otherwise.
// Records handed out are copies; callers mutate only inside Execute.
package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"warden/internal/screening/models"
	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
)

const numRecordShards = 64

// InMemoryStore keeps runs and records in maps. Execute serializes writers
// per record through a fixed set of sharded mutexes, so updates to different
// records rarely contend.
type InMemoryStore struct {
	mu         sync.RWMutex
	runs       map[id.RunID]*models.Run
	records    map[id.ResultID]*models.ScreeningRecord
	nextRun    id.RunID
	nextResult id.ResultID
	generation uint64

	shards [numRecordShards]sync.Mutex
}

// NewInMemory constructs an empty store with counters at their first values.
func NewInMemory() *InMemoryStore {
	s := &InMemoryStore{}
	s.reset()
	return s
}

func (s *InMemoryStore) reset() {
	s.runs = make(map[id.RunID]*models.Run)
	s.records = make(map[id.ResultID]*models.ScreeningRecord)
	s.nextRun = id.FirstRunID
	s.nextResult = id.FirstResultID
	s.generation++
}

// AllocateIDs reserves one run ID and n result IDs.
func (s *InMemoryStore) AllocateIDs(_ context.Context, n int) (id.RunID, []id.ResultID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runID := s.nextRun
	s.nextRun++
	results := make([]id.ResultID, n)
	for i := range results {
		results[i] = s.nextResult
		s.nextResult++
	}
	return runID, results, nil
}

type pendingKey struct{}

// pendingWrites holds the writes of one unit of work until it commits.
type pendingWrites struct {
	ops []func() error
}

// RunInTx buffers CreateRun and Reset calls made with the context passed to
// fn and applies them under one lock only when fn returns nil. Nested calls
// join the outer unit of work. Allocated IDs are not returned on rollback.
func (s *InMemoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, nested := ctx.Value(pendingKey{}).(*pendingWrites); nested {
		return fn(ctx)
	}
	p := &pendingWrites{}
	if err := fn(context.WithValue(ctx, pendingKey{}, p)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, op := range p.ops {
		if err := op(); err != nil {
			return err
		}
	}
	return nil
}

// apply queues op when ctx belongs to a unit of work, otherwise applies it
// immediately.
func (s *InMemoryStore) apply(ctx context.Context, op func() error) error {
	if p, ok := ctx.Value(pendingKey{}).(*pendingWrites); ok {
		p.ops = append(p.ops, op)
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return op()
}

// CreateRun stores a run together with all of its records.
func (s *InMemoryStore) CreateRun(ctx context.Context, run *models.Run, records []*models.ScreeningRecord) error {
	runCopy := *run
	copies := make([]*models.ScreeningRecord, len(records))
	for i, r := range records {
		copies[i] = r.Clone()
	}
	return s.apply(ctx, func() error {
		return s.insertRun(&runCopy, copies)
	})
}

// Must be called while holding s.mu.
func (s *InMemoryStore) insertRun(run *models.Run, records []*models.ScreeningRecord) error {
	if _, exists := s.runs[run.RunID]; exists {
		return fmt.Errorf("run %s already exists: %w", run.RunID, sentinel.ErrConflict)
	}
	for _, r := range records {
		if _, exists := s.records[r.ResultID]; exists {
			return fmt.Errorf("record %s already exists: %w", r.ResultID, sentinel.ErrConflict)
		}
	}

	s.runs[run.RunID] = run
	for _, r := range records {
		s.records[r.ResultID] = r
	}
	return nil
}

func (s *InMemoryStore) FindRecord(_ context.Context, resultID id.ResultID) (*models.ScreeningRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[resultID]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", resultID, sentinel.ErrNotFound)
	}
	return r.Clone(), nil
}

// ListRecords returns matching records ordered by result ID.
func (s *InMemoryStore) ListRecords(_ context.Context, filter models.RecordFilter) ([]*models.ScreeningRecord, error) {
	s.mu.RLock()
	out := make([]*models.ScreeningRecord, 0)
	for _, r := range s.records {
		if filter.Matches(r) {
			out = append(out, r.Clone())
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *models.ScreeningRecord) int { return cmp.Compare(a.ResultID, b.ResultID) })
	return out, nil
}

func (s *InMemoryStore) FindRun(_ context.Context, runID id.RunID) (*models.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("run %s: %w", runID, sentinel.ErrNotFound)
	}
	c := *r
	return &c, nil
}

// ListRuns returns matching runs ordered by run ID.
func (s *InMemoryStore) ListRuns(_ context.Context, filter models.RunFilter) ([]*models.Run, error) {
	s.mu.RLock()
	out := make([]*models.Run, 0, len(s.runs))
	for _, r := range s.runs {
		if filter.Matches(r) {
			c := *r
			out = append(out, &c)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *models.Run) int { return cmp.Compare(a.RunID, b.RunID) })
	return out, nil
}

// Execute runs fn against a copy of the record while holding the record's
// writer lock and stores the copy only if fn succeeds.
func (s *InMemoryStore) Execute(ctx context.Context, resultID id.ResultID, fn func(*models.ScreeningRecord) error) (*models.ScreeningRecord, error) {
	shard := &s.shards[uint64(resultID)%numRecordShards]
	shard.Lock()
	defer shard.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	current, ok := s.records[resultID]
	gen := s.generation
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("record %s: %w", resultID, sentinel.ErrNotFound)
	}

	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}

	s.mu.Lock()
	// A Reset while fn ran invalidates the copy, even if the ID was reused.
	if s.generation != gen {
		s.mu.Unlock()
		return nil, fmt.Errorf("record %s: %w", resultID, sentinel.ErrNotFound)
	}
	s.records[resultID] = working
	s.mu.Unlock()

	return working.Clone(), nil
}

// Counts reports how many runs and records are stored.
func (s *InMemoryStore) Counts(_ context.Context) (runs int, records int, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs), len(s.records), nil
}

// Reset drops everything and restarts the ID counters.
func (s *InMemoryStore) Reset(ctx context.Context) error {
	return s.apply(ctx, func() error {
		s.reset()
		return nil
	})
}
