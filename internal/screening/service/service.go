// Package service orchestrates screening runs, case state changes and
// threshold decisions on top of the pure engines and the record store.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	"warden/internal/screening/metrics"
	"warden/internal/screening/models"
	"warden/internal/watchlist"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
	audit "warden/pkg/platform/audit"
	"warden/pkg/platform/sentinel"
)

var tracer = otel.Tracer("warden/internal/screening/service")

// Store persists runs and records. Execute is the only way to mutate a
// record and admits one writer per record at a time.
type Store interface {
	AllocateIDs(ctx context.Context, n int) (id.RunID, []id.ResultID, error)
	CreateRun(ctx context.Context, run *models.Run, records []*models.ScreeningRecord) error
	FindRecord(ctx context.Context, resultID id.ResultID) (*models.ScreeningRecord, error)
	ListRecords(ctx context.Context, filter models.RecordFilter) ([]*models.ScreeningRecord, error)
	FindRun(ctx context.Context, runID id.RunID) (*models.Run, error)
	ListRuns(ctx context.Context, filter models.RunFilter) ([]*models.Run, error)
	Execute(ctx context.Context, resultID id.ResultID, fn func(*models.ScreeningRecord) error) (*models.ScreeningRecord, error)
	Counts(ctx context.Context) (runs int, records int, err error)
	Reset(ctx context.Context) error
}

// WatchlistSource supplies the entries to screen against. *watchlist.Index
// satisfies it.
type WatchlistSource interface {
	Entries() []watchlist.Entry
	DataFiles() []watchlist.DataFile
}

// ComplianceAuditor persists compliance events and fails closed.
type ComplianceAuditor interface {
	Emit(ctx context.Context, event audit.ComplianceEvent) error
}

// Service is safe for concurrent use.
type Service struct {
	store     Store
	watchlist WatchlistSource
	tx        TxRunner
	auditor   ComplianceAuditor
	logger    *slog.Logger
	metrics   *metrics.Metrics

	minScore   int
	workers    int
	assignment models.Assignment
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditor(a ComplianceAuditor) Option {
	return func(s *Service) { s.auditor = a }
}

// WithTx sets the unit-of-work runner. Defaults to a local timeout runner that
// commits through the store when the store implements TxRunner.
func WithTx(tx TxRunner) Option {
	return func(s *Service) { s.tx = tx }
}

// WithMinScore sets the match inclusion floor.
func WithMinScore(score int) Option {
	return func(s *Service) { s.minScore = score }
}

// WithWorkers bounds how many entities of one run are screened concurrently.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithDefaultAssignment sets the routing used when a search names none.
func WithDefaultAssignment(a models.Assignment) Option {
	return func(s *Service) { s.assignment = a }
}

const (
	defaultMinScore = 25
	defaultWorkers  = 8
)

func New(store Store, source WatchlistSource, opts ...Option) *Service {
	s := &Service{
		store:      store,
		watchlist:  source,
		tx:         localTx{},
		logger:     slog.Default(),
		minScore:   defaultMinScore,
		workers:    defaultWorkers,
		assignment: models.DefaultAssignment(),
	}
	if uow, ok := store.(TxRunner); ok {
		s.tx = localTx{inner: uow}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DataFiles lists the watchlist files backing the index.
func (s *Service) DataFiles() []watchlist.DataFile {
	return s.watchlist.DataFiles()
}

// StateSummary is the admin view of the store.
type StateSummary struct {
	RunCount         int `json:"runCount"`
	RecordCount      int `json:"recordCount"`
	WatchlistEntries int `json:"watchlistEntries"`
}

func (s *Service) State(ctx context.Context) (*StateSummary, error) {
	runs, records, err := s.store.Counts(ctx)
	if err != nil {
		return nil, translateErr(err, "store")
	}
	return &StateSummary{
		RunCount:         runs,
		RecordCount:      records,
		WatchlistEntries: len(s.watchlist.Entries()),
	}, nil
}

// Reset drops every run and record and restarts the ID counters.
func (s *Service) Reset(ctx context.Context) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.Reset(ctx); err != nil {
			return err
		}
		return s.emit(ctx, audit.ComplianceEvent{
			Subject: "store",
			Action:  audit.EventStoreReset,
		})
	})
	if err != nil {
		return translateErr(err, "store")
	}
	s.logger.WarnContext(ctx, "screening store reset",
		"request_id", requestID(ctx),
		"actor", actorOrDefault(ctx),
	)
	return nil
}

func (s *Service) emit(ctx context.Context, event audit.ComplianceEvent) error {
	if s.auditor == nil {
		return nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = now(ctx)
	}
	if event.Actor == "" {
		event.Actor = actorOrDefault(ctx)
	}
	event.RequestID = requestID(ctx)
	event.ClientIP = clientIP(ctx)
	event.ClientAgent = clientAgent(ctx)
	return s.auditor.Emit(ctx, event)
}

// translateErr maps store sentinels to domain errors. Domain errors pass
// through unchanged.
func translateErr(err error, subject string) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, subject+" not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, subject+" already exists")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "store unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "operation timed out")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "store operation failed")
	}
}

func since(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
