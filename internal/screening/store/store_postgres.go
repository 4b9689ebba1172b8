package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"warden/internal/screening/models"
	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
	txcontext "warden/pkg/platform/tx"
)

// PostgresStore persists runs and records in PostgreSQL. Case state columns
// are stored individually so filters run in SQL; history, matches and the
// input entity are JSONB.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const recordColumns = `result_id, run_id, record_ref, record_status, has_matches, input_name,
	entity, matches, alert_state, status, note, assigned_to, assignment_type,
	division, added_to_accept_list, history, match_states`

const runColumns = `run_id, date_created, date_completed, status, record_count, match_count,
	predefined_search_name, block_id, client_reference`

// AllocateIDs draws from the run and result sequences.
func (s *PostgresStore) AllocateIDs(ctx context.Context, n int) (id.RunID, []id.ResultID, error) {
	q := txcontext.Use(ctx, s.db)

	var runID int64
	if err := q.QueryRowContext(ctx, `SELECT nextval('screening_run_id_seq')`).Scan(&runID); err != nil {
		return 0, nil, fmt.Errorf("allocate run id: %w", err)
	}
	results := make([]id.ResultID, 0, n)
	if n == 0 {
		return id.RunID(runID), results, nil
	}

	rows, err := q.QueryContext(ctx, `SELECT nextval('screening_result_id_seq') FROM generate_series(1, $1)`, n)
	if err != nil {
		return 0, nil, fmt.Errorf("allocate result ids: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return 0, nil, fmt.Errorf("scan result id: %w", err)
		}
		results = append(results, id.ResultID(v))
	}
	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("iterate result ids: %w", err)
	}
	return id.RunID(runID), results, nil
}

// CreateRun inserts the run and its records in one transaction.
func (s *PostgresStore) CreateRun(ctx context.Context, run *models.Run, records []*models.ScreeningRecord) error {
	return txcontext.Run(ctx, s.db, func(ctx context.Context) error {
		q := txcontext.Use(ctx, s.db)
		_, err := q.ExecContext(ctx, `INSERT INTO screening_runs (`+runColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			int64(run.RunID), run.DateCreated, run.DateCompleted, string(run.Status),
			run.RecordCount, run.MatchCount, run.PredefinedSearchName, run.BlockID, run.ClientReference,
		)
		if err != nil {
			return translateWriteErr(fmt.Sprintf("insert run %s", run.RunID), err)
		}
		for _, r := range records {
			if err := s.insertRecord(ctx, q, r); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PostgresStore) insertRecord(ctx context.Context, q txcontext.Querier, r *models.ScreeningRecord) error {
	row, err := toRow(r)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `INSERT INTO screening_records (`+recordColumns+`, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		row.resultID, row.runID, row.recordRef, row.recordStatus, row.hasMatches, row.inputName,
		row.entity, row.matches, row.alertState, row.status, row.note, pq.Array(row.assignedTo),
		row.assignmentType, row.division, row.addedToAcceptList, row.history, row.matchStates, time.Now(),
	)
	if err != nil {
		return translateWriteErr(fmt.Sprintf("insert record %s", r.ResultID), err)
	}
	return nil
}

func (s *PostgresStore) FindRecord(ctx context.Context, resultID id.ResultID) (*models.ScreeningRecord, error) {
	row := txcontext.Use(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM screening_records WHERE result_id = $1`, int64(resultID))
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("record %s: %w", resultID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find record %s: %w", resultID, err)
	}
	return rec, nil
}

// ListRecords returns matching records ordered by result ID.
func (s *PostgresStore) ListRecords(ctx context.Context, filter models.RecordFilter) ([]*models.ScreeningRecord, error) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if !filter.RunID.IsNil() {
		add("run_id = $%d", int64(filter.RunID))
	}
	if filter.AlertState != "" {
		add("alert_state = $%d", string(filter.AlertState))
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.HasMatches != nil {
		add("has_matches = $%d", *filter.HasMatches)
	}

	query := `SELECT ` + recordColumns + ` FROM screening_records`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY result_id`

	rows, err := txcontext.Use(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	out := make([]*models.ScreeningRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) FindRun(ctx context.Context, runID id.RunID) (*models.Run, error) {
	row := txcontext.Use(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM screening_runs WHERE run_id = $1`, int64(runID))
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("run %s: %w", runID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find run %s: %w", runID, err)
	}
	return run, nil
}

// ListRuns returns matching runs ordered by run ID.
func (s *PostgresStore) ListRuns(ctx context.Context, filter models.RunFilter) ([]*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM screening_runs`
	var args []any
	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY run_id`

	rows, err := txcontext.Use(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

// Execute locks the record row with SELECT ... FOR UPDATE, runs fn and
// writes the case state back in the same transaction.
func (s *PostgresStore) Execute(ctx context.Context, resultID id.ResultID, fn func(*models.ScreeningRecord) error) (*models.ScreeningRecord, error) {
	var updated *models.ScreeningRecord
	err := txcontext.Run(ctx, s.db, func(ctx context.Context) error {
		q := txcontext.Use(ctx, s.db)
		row := q.QueryRowContext(ctx,
			`SELECT `+recordColumns+` FROM screening_records WHERE result_id = $1 FOR UPDATE`, int64(resultID))
		rec, err := scanRecord(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("record %s: %w", resultID, sentinel.ErrNotFound)
			}
			return fmt.Errorf("lock record %s: %w", resultID, err)
		}

		if err := fn(rec); err != nil {
			return err
		}

		r, err := toRow(rec)
		if err != nil {
			return err
		}
		_, err = q.ExecContext(ctx, `UPDATE screening_records SET
				alert_state = $2, status = $3, note = $4, assigned_to = $5, assignment_type = $6,
				division = $7, added_to_accept_list = $8, history = $9, match_states = $10, updated_at = $11
			WHERE result_id = $1`,
			r.resultID, r.alertState, r.status, r.note, pq.Array(r.assignedTo), r.assignmentType,
			r.division, r.addedToAcceptList, r.history, r.matchStates, time.Now(),
		)
		if err != nil {
			return fmt.Errorf("update record %s: %w", resultID, err)
		}
		updated = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Counts reports how many runs and records are stored.
func (s *PostgresStore) Counts(ctx context.Context) (int, int, error) {
	var runs, records int
	err := txcontext.Use(ctx, s.db).QueryRowContext(ctx,
		`SELECT (SELECT count(*) FROM screening_runs), (SELECT count(*) FROM screening_records)`,
	).Scan(&runs, &records)
	if err != nil {
		return 0, 0, fmt.Errorf("count runs and records: %w", err)
	}
	return runs, records, nil
}

// Reset truncates both tables and restarts the sequences.
func (s *PostgresStore) Reset(ctx context.Context) error {
	return txcontext.Run(ctx, s.db, func(ctx context.Context) error {
		q := txcontext.Use(ctx, s.db)
		for _, stmt := range []string{
			`TRUNCATE screening_records, screening_runs`,
			`ALTER SEQUENCE screening_run_id_seq RESTART WITH 100001`,
			`ALTER SEQUENCE screening_result_id_seq RESTART WITH 200001`,
		} {
			if _, err := q.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("reset: %w", err)
			}
		}
		return nil
	})
}

type recordRow struct {
	resultID          int64
	runID             int64
	recordRef         string
	recordStatus      string
	hasMatches        bool
	inputName         string
	entity            []byte
	matches           []byte
	alertState        string
	status            string
	note              string
	assignedTo        []string
	assignmentType    string
	division          string
	addedToAcceptList bool
	history           []byte
	matchStates       []byte
}

func toRow(r *models.ScreeningRecord) (recordRow, error) {
	row := recordRow{
		resultID:          int64(r.ResultID),
		runID:             int64(r.RunID),
		recordRef:         r.RecordRef,
		recordStatus:      r.RecordStatus,
		hasMatches:        r.HasMatches,
		inputName:         r.InputName,
		alertState:        string(r.State.AlertState),
		status:            r.State.Status,
		note:              r.State.Note,
		assignedTo:        r.State.AssignedTo,
		assignmentType:    r.State.AssignmentType,
		division:          r.State.Division,
		addedToAcceptList: r.State.AddedToAcceptList,
	}
	if row.assignedTo == nil {
		row.assignedTo = []string{}
	}
	var err error
	if row.entity, err = json.Marshal(r.Entity); err != nil {
		return recordRow{}, fmt.Errorf("marshal entity: %w", err)
	}
	if row.matches, err = json.Marshal(r.Matches); err != nil {
		return recordRow{}, fmt.Errorf("marshal matches: %w", err)
	}
	if row.history, err = json.Marshal(r.State.History); err != nil {
		return recordRow{}, fmt.Errorf("marshal history: %w", err)
	}
	matchStates := r.State.MatchStates
	if matchStates == nil {
		matchStates = []models.MatchState{}
	}
	if row.matchStates, err = json.Marshal(matchStates); err != nil {
		return recordRow{}, fmt.Errorf("marshal match states: %w", err)
	}
	return row, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*models.ScreeningRecord, error) {
	var row recordRow
	err := sc.Scan(
		&row.resultID, &row.runID, &row.recordRef, &row.recordStatus, &row.hasMatches, &row.inputName,
		&row.entity, &row.matches, &row.alertState, &row.status, &row.note, pq.Array(&row.assignedTo),
		&row.assignmentType, &row.division, &row.addedToAcceptList, &row.history, &row.matchStates,
	)
	if err != nil {
		return nil, err
	}

	rec := &models.ScreeningRecord{
		ResultID:     id.ResultID(row.resultID),
		RunID:        id.RunID(row.runID),
		RecordRef:    row.recordRef,
		RecordStatus: row.recordStatus,
		HasMatches:   row.hasMatches,
		InputName:    row.inputName,
		State: models.RecordState{
			AlertState:        models.AlertState(row.alertState),
			Status:            row.status,
			Note:              row.note,
			AssignedTo:        row.assignedTo,
			AssignmentType:    row.assignmentType,
			Division:          row.division,
			AddedToAcceptList: row.addedToAcceptList,
		},
	}
	if err := json.Unmarshal(row.entity, &rec.Entity); err != nil {
		return nil, fmt.Errorf("unmarshal entity: %w", err)
	}
	if err := json.Unmarshal(row.matches, &rec.Matches); err != nil {
		return nil, fmt.Errorf("unmarshal matches: %w", err)
	}
	if err := json.Unmarshal(row.history, &rec.State.History); err != nil {
		return nil, fmt.Errorf("unmarshal history: %w", err)
	}
	if err := json.Unmarshal(row.matchStates, &rec.State.MatchStates); err != nil {
		return nil, fmt.Errorf("unmarshal match states: %w", err)
	}
	return rec, nil
}

func scanRun(sc scanner) (*models.Run, error) {
	var (
		run    models.Run
		runID  int64
		status string
	)
	err := sc.Scan(&runID, &run.DateCreated, &run.DateCompleted, &status, &run.RecordCount,
		&run.MatchCount, &run.PredefinedSearchName, &run.BlockID, &run.ClientReference)
	if err != nil {
		return nil, err
	}
	run.RunID = id.RunID(runID)
	run.Status = models.RunStatus(status)
	return &run, nil
}

// translateWriteErr maps unique violations to sentinel.ErrConflict.
func translateWriteErr(op string, err error) error {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) && pgErr.SQLState() == "23505" {
		return fmt.Errorf("%s: %w", op, sentinel.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
