package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"warden/internal/screening/engine"
	"warden/internal/screening/models"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
	audit "warden/pkg/platform/audit"
)

// SearchEngineVersion is reported with every search response.
const SearchEngineVersion = "5.0.0.1764"

// SearchConfiguration selects the predefined search and result routing.
type SearchConfiguration struct {
	PredefinedSearchName string
	AssignResultTo       models.Assignment
}

// InputRecord is one entity of a batch plus the caller's correlation ID.
type InputRecord struct {
	RecordID string
	Entity   models.InputEntity
}

// SearchRequest is a batch of entities screened as one run.
type SearchRequest struct {
	Configuration   SearchConfiguration
	BlockID         string
	ClientReference string
	Records         []InputRecord
}

// Validate rejects the whole batch when any entity lacks a usable name.
func (r SearchRequest) Validate() error {
	for i, rec := range r.Records {
		if err := rec.Entity.Validate(); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInvalidInput, fmt.Sprintf("record %d: entity has no usable name", i))
		}
	}
	return nil
}

// SearchResults is the persisted run and its records in input order.
type SearchResults struct {
	BlockID             string
	ClientReference     string
	SearchEngineVersion string
	Run                 *models.Run
	Records             []*models.ScreeningRecord
}

// Search screens every entity of the request, then persists the run and its
// records together. Nothing is persisted when validation fails.
func (s *Service) Search(ctx context.Context, req SearchRequest) (*SearchResults, error) {
	ctx, span := tracer.Start(ctx, "screening.Search")
	defer span.End()
	span.SetAttributes(attribute.Int("screening.record_count", len(req.Records)))
	start := time.Now()

	if err := req.Validate(); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		return nil, err
	}

	matches, err := s.screenAll(ctx, req.Records)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "screening failed")
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "screening aborted")
	}

	searchName := req.Configuration.PredefinedSearchName
	if searchName == "" {
		searchName = models.DefaultPredefinedRun
	}
	assignment := req.Configuration.AssignResultTo.Or(s.assignment)
	ts := now(ctx)

	var (
		run     *models.Run
		records []*models.ScreeningRecord
	)
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		runID, resultIDs, err := s.store.AllocateIDs(ctx, len(req.Records))
		if err != nil {
			return err
		}
		records = make([]*models.ScreeningRecord, len(req.Records))
		matchCount := 0
		for i, in := range req.Records {
			records[i] = models.NewScreeningRecord(models.NewRecordParams{
				ResultID:   resultIDs[i],
				RunID:      runID,
				RecordRef:  in.RecordID,
				Entity:     in.Entity,
				Matches:    matches[i],
				SearchName: searchName,
				Assignment: assignment,
				Now:        ts,
			})
			if records[i].HasMatches {
				matchCount++
			}
		}
		run = &models.Run{
			RunID:                runID,
			DateCreated:          ts,
			DateCompleted:        ts,
			Status:               models.RunCompleted,
			RecordCount:          len(records),
			MatchCount:           matchCount,
			PredefinedSearchName: searchName,
			BlockID:              req.BlockID,
			ClientReference:      req.ClientReference,
		}
		if err := s.store.CreateRun(ctx, run, records); err != nil {
			return err
		}
		return s.emit(ctx, audit.ComplianceEvent{
			Subject:  runSubject(runID),
			Action:   audit.EventRunCreated,
			Decision: fmt.Sprintf("%d/%d matched", matchCount, len(records)),
			Reason:   searchName,
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		return nil, translateErr(err, "run")
	}

	s.metrics.IncRunsCreated()
	for _, r := range records {
		s.metrics.ObserveRecord(r.RecordStatus, r.HasMatches, r.TopScore())
	}
	s.metrics.ObserveSearchDuration(time.Since(start))
	span.SetAttributes(
		attribute.Int64("screening.run_id", int64(run.RunID)),
		attribute.Int("screening.match_count", run.MatchCount),
	)

	s.logger.InfoContext(ctx, "screening run completed",
		"request_id", requestID(ctx),
		"run_id", run.RunID,
		"record_count", run.RecordCount,
		"match_count", run.MatchCount,
		"search_name", searchName,
		"duration_ms", since(start),
	)

	return &SearchResults{
		BlockID:             req.BlockID,
		ClientReference:     req.ClientReference,
		SearchEngineVersion: SearchEngineVersion,
		Run:                 run,
		Records:             records,
	}, nil
}

// screenAll scores every entity on a bounded pool. Result i belongs to
// input record i.
func (s *Service) screenAll(ctx context.Context, in []InputRecord) ([][]models.MatchResult, error) {
	entries := s.watchlist.Entries()
	opts := engine.Options{MinScore: s.minScore}
	out := make([][]models.MatchResult, len(in))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, rec := range in {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = engine.Screen(rec.Entity, entries, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func runSubject(runID id.RunID) string {
	return "run:" + runID.String()
}

func recordSubject(resultID id.ResultID) string {
	return "record:" + resultID.String()
}
