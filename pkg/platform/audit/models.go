// Package audit records who did what to a screening case.
//
// Events fall into two categories. Compliance events (runs, state changes,
// decisions, resets) are written synchronously and fail closed: if the event
// cannot be persisted the operation that produced it fails. Operations
// events (webhooks emitted and verified) are sampled and written in the
// background.
package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by retention and delivery guarantees.
type EventCategory string

const (
	CategoryCompliance EventCategory = "compliance"
	CategoryOperations EventCategory = "operations"
)

// AuditEvent names an auditable action.
type AuditEvent string

const (
	EventRunCreated      AuditEvent = "run_created"
	EventStateApplied    AuditEvent = "state_applied"
	EventDecisionApplied AuditEvent = "decision_applied"
	EventStoreReset      AuditEvent = "store_reset"
	EventWebhookEmitted  AuditEvent = "webhook_emitted"
	EventWebhookVerified AuditEvent = "webhook_verified"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventRunCreated:      CategoryCompliance,
	EventStateApplied:    CategoryCompliance,
	EventDecisionApplied: CategoryCompliance,
	EventStoreReset:      CategoryCompliance,

	EventWebhookEmitted:  CategoryOperations,
	EventWebhookVerified: CategoryOperations,
}

// Category returns the category for the event. Unknown events are operations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Event is the stored form of every audit entry.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	// Subject is the run or record the action touched, e.g. "record:200001".
	Subject     string
	Action      string
	Actor       string
	Decision    string
	Reason      string
	RequestID   string
	ClientIP    string
	ClientAgent string
}

// Store persists audit events. Implementations must be safe for concurrent use.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subject string) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

// ComplianceEvent captures a reviewer or system action on case state.
type ComplianceEvent struct {
	Timestamp   time.Time
	Subject     string
	Action      AuditEvent
	Actor       string
	Decision    string
	Reason      string
	RequestID   string
	ClientIP    string
	ClientAgent string
}

func (e ComplianceEvent) ToEvent() Event {
	return Event{
		Category:    CategoryCompliance,
		Timestamp:   e.Timestamp,
		Subject:     e.Subject,
		Action:      string(e.Action),
		Actor:       e.Actor,
		Decision:    e.Decision,
		Reason:      e.Reason,
		RequestID:   e.RequestID,
		ClientIP:    e.ClientIP,
		ClientAgent: e.ClientAgent,
	}
}

// OpsEvent captures routine activity that may be sampled.
type OpsEvent struct {
	Timestamp time.Time
	Subject   string
	Action    AuditEvent
	RequestID string
}

func (e OpsEvent) ToEvent() Event {
	return Event{
		Category:  CategoryOperations,
		Timestamp: e.Timestamp,
		Subject:   e.Subject,
		Action:    string(e.Action),
		RequestID: e.RequestID,
	}
}
