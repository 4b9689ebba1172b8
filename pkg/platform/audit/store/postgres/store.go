package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	audit "warden/pkg/platform/audit"
	txcontext "warden/pkg/platform/tx"
)

// Store implements audit.Store on the audit_events table. Append joins the
// transaction in ctx, so a compliance event commits or rolls back together
// with the case change it describes.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const eventColumns = `category, timestamp, subject, action, actor, decision, reason, request_id, client_ip, client_agent`

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	category := event.Category
	if category == "" {
		category = audit.AuditEvent(event.Action).Category()
	}
	_, err := txcontext.Use(ctx, s.db).ExecContext(ctx, `
		INSERT INTO audit_events (id, `+eventColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		uuid.New(),
		string(category),
		event.Timestamp,
		event.Subject,
		event.Action,
		event.Actor,
		event.Decision,
		event.Reason,
		event.RequestID,
		event.ClientIP,
		event.ClientAgent,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListBySubject returns events for one run or record, newest first.
func (s *Store) ListBySubject(ctx context.Context, subject string) ([]audit.Event, error) {
	rows, err := txcontext.Use(ctx, s.db).QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM audit_events
		WHERE subject = $1
		ORDER BY timestamp DESC`, subject)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListRecent returns the N most recent events.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	rows, err := txcontext.Use(ctx, s.db).QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM audit_events
		ORDER BY timestamp DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event
	for rows.Next() {
		var (
			event    audit.Event
			category string
		)
		if err := rows.Scan(
			&category,
			&event.Timestamp,
			&event.Subject,
			&event.Action,
			&event.Actor,
			&event.Decision,
			&event.Reason,
			&event.RequestID,
			&event.ClientIP,
			&event.ClientAgent,
		); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Category = audit.EventCategory(category)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
