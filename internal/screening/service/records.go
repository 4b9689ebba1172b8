package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"warden/internal/screening/decision"
	"warden/internal/screening/models"
	id "warden/pkg/domain"
	audit "warden/pkg/platform/audit"
)

func (s *Service) GetRecord(ctx context.Context, resultID id.ResultID) (*models.ScreeningRecord, error) {
	rec, err := s.store.FindRecord(ctx, resultID)
	if err != nil {
		return nil, translateErr(err, fmt.Sprintf("record %s", resultID))
	}
	return rec, nil
}

// SearchRecords returns the records passing every set criterion, ordered by
// result ID.
func (s *Service) SearchRecords(ctx context.Context, filter models.RecordFilter) ([]*models.ScreeningRecord, error) {
	recs, err := s.store.ListRecords(ctx, filter)
	if err != nil {
		return nil, translateErr(err, "records")
	}
	return recs, nil
}

func (s *Service) GetRun(ctx context.Context, runID id.RunID) (*models.Run, error) {
	run, err := s.store.FindRun(ctx, runID)
	if err != nil {
		return nil, translateErr(err, fmt.Sprintf("run %s", runID))
	}
	return run, nil
}

func (s *Service) SearchRuns(ctx context.Context, filter models.RunFilter) ([]*models.Run, error) {
	runs, err := s.store.ListRuns(ctx, filter)
	if err != nil {
		return nil, translateErr(err, "runs")
	}
	return runs, nil
}

// SetRecordState applies a partial update to a record's case state and
// appends one history entry. Enum-like strings are stored as given. The
// history actor is the patch User, else the authenticated caller, else the
// default reviewer.
func (s *Service) SetRecordState(ctx context.Context, resultID id.ResultID, patch models.StatePatch) (*models.ScreeningRecord, error) {
	ctx, span := tracer.Start(ctx, "screening.SetRecordState")
	defer span.End()
	span.SetAttributes(attribute.Int64("screening.result_id", int64(resultID)))

	actor := actorOrDefault(ctx)
	ts := now(ctx)

	var (
		previous models.AlertState
		entry    models.HistoryEntry
		updated  *models.ScreeningRecord
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.store.Execute(ctx, resultID, func(rec *models.ScreeningRecord) error {
			previous = rec.State.AlertState
			entry = rec.State.Apply(patch, ts, actor)
			return s.emit(ctx, audit.ComplianceEvent{
				Timestamp: ts,
				Subject:   recordSubject(resultID),
				Action:    audit.EventStateApplied,
				Actor:     entry.User,
				Decision:  string(rec.State.AlertState) + "/" + rec.State.Status,
				Reason:    entry.Event,
			})
		})
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, translateErr(err, fmt.Sprintf("record %s", resultID))
	}

	s.metrics.IncStateChange(entry.Event)
	s.logger.InfoContext(ctx, "record state applied",
		"request_id", requestID(ctx),
		"result_id", resultID,
		"event", entry.Event,
		"actor", entry.User,
		"alert_state_from", previous,
		"alert_state_to", updated.State.AlertState,
	)
	return updated, nil
}

// DecisionReport is the outcome of applying thresholds to a run.
type DecisionReport struct {
	RunID      id.RunID                     `json:"RunID"`
	Thresholds decision.Thresholds          `json:"thresholds"`
	Decisions  []decision.RecordDecision    `json:"decisions"`
	Summary    map[decision.Disposition]int `json:"summary"`
}

// Decide validates the thresholds and decides every record of the run.
// Decisions are computed, not stored.
func (s *Service) Decide(ctx context.Context, runID id.RunID, t decision.Thresholds) (*DecisionReport, error) {
	ctx, span := tracer.Start(ctx, "screening.Decide")
	defer span.End()
	span.SetAttributes(attribute.Int64("screening.run_id", int64(runID)))

	if err := t.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.store.FindRun(ctx, runID); err != nil {
		return nil, translateErr(err, fmt.Sprintf("run %s", runID))
	}
	records, err := s.store.ListRecords(ctx, models.RecordFilter{RunID: runID})
	if err != nil {
		return nil, translateErr(err, "records")
	}

	decisions := decision.ApplyBatch(records, t)
	summary := decision.Summary(decisions)

	if err := s.emit(ctx, audit.ComplianceEvent{
		Subject:  runSubject(runID),
		Action:   audit.EventDecisionApplied,
		Decision: fmt.Sprintf("release=%d block=%d hold=%d", summary[decision.AutoRelease], summary[decision.AutoBlock], summary[decision.HoldForReview]),
		Reason:   fmt.Sprintf("autoAccept=%d autoReject=%d", t.AutoAccept, t.AutoReject),
	}); err != nil {
		return nil, translateErr(err, "audit")
	}

	for disposition, n := range summary {
		s.metrics.AddDecisions(string(disposition), n)
	}
	s.logger.InfoContext(ctx, "run decided",
		"request_id", requestID(ctx),
		"run_id", runID,
		"auto_accept", t.AutoAccept,
		"auto_reject", t.AutoReject,
		"released", summary[decision.AutoRelease],
		"blocked", summary[decision.AutoBlock],
		"held", summary[decision.HoldForReview],
	)

	return &DecisionReport{RunID: runID, Thresholds: t, Decisions: decisions, Summary: summary}, nil
}
