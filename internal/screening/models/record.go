package models

import (
	"slices"
	"time"

	id "warden/pkg/domain"
	pstrings "warden/pkg/platform/strings"
)

// Record status labels.
const (
	RecordStatusMatches   = "Matches Found"
	RecordStatusNoMatches = "No Matches"
)

// Initial case statuses.
const (
	StatusPendingReview = "Pending Review"
	StatusAutoCleared   = "Auto-Cleared"
)

// History events and actors.
const (
	EventRecordCreated   = "Record Created"
	EventAlertOpenClose  = "Alert Opened or Closed"
	EventDecisionApplied = "Alert Decision Applied"

	ActorSystem          = "System"
	DefaultReviewer      = "ComplianceOfficer"
	DefaultPredefinedRun = "Default"
)

// Assignment routes a new record to a division and queue.
type Assignment struct {
	Division   string   `json:"Division,omitempty"`
	AssignedTo []string `json:"RolesOrUsers,omitempty"`
	Type       string   `json:"Type,omitempty"`
}

// DefaultAssignment is the routing used by the demo server when a search
// does not name one.
func DefaultAssignment() Assignment {
	return Assignment{Division: "Compliance", AssignedTo: []string{"ComplianceTeam"}, Type: "Role"}
}

// Or fills blank fields from fallback. An assignee list with only blank
// entries counts as blank.
func (a Assignment) Or(fallback Assignment) Assignment {
	if a.Division == "" {
		a.Division = fallback.Division
	}
	if len(pstrings.DedupeAndTrim(a.AssignedTo)) == 0 {
		a.AssignedTo = slices.Clone(fallback.AssignedTo)
	}
	if a.Type == "" {
		a.Type = fallback.Type
	}
	return a
}

// ScreeningRecord is the screening outcome for one entity plus its case state.
type ScreeningRecord struct {
	ResultID     id.ResultID   `json:"ResultID"`
	RunID        id.RunID      `json:"RunID"`
	RecordRef    string        `json:"Record"`
	RecordStatus string        `json:"RecordStatus"`
	HasMatches   bool          `json:"HasScreeningListMatches"`
	InputName    string        `json:"InputName"`
	Entity       InputEntity   `json:"InputEntity"`
	Matches      []MatchResult `json:"WatchlistResults"`
	State        RecordState   `json:"RecordState"`
}

// NewRecordParams carries everything needed to open a record.
type NewRecordParams struct {
	ResultID   id.ResultID
	RunID      id.RunID
	RecordRef  string
	Entity     InputEntity
	Matches    []MatchResult
	SearchName string
	Assignment Assignment
	Now        time.Time
}

// NewScreeningRecord builds a record in its initial case state. Records with
// matches open for review; records without are closed immediately.
func NewScreeningRecord(p NewRecordParams) *ScreeningRecord {
	hasMatches := len(p.Matches) > 0
	searchName := p.SearchName
	if searchName == "" {
		searchName = DefaultPredefinedRun
	}
	ref := p.RecordRef
	if ref == "" {
		ref = p.ResultID.String()
	}
	matches := p.Matches
	if matches == nil {
		matches = []MatchResult{}
	}

	state := RecordState{
		AlertState:     AlertOpen,
		Status:         StatusPendingReview,
		AssignedTo:     pstrings.DedupeAndTrim(p.Assignment.AssignedTo),
		AssignmentType: p.Assignment.Type,
		Division:       p.Assignment.Division,
		History: []HistoryEntry{{
			Date:  p.Now,
			Event: EventRecordCreated,
			User:  ActorSystem,
			Note:  "Screening via predefined search: " + searchName,
		}},
		MatchStates: make([]MatchState, 0, len(matches)),
	}
	status := RecordStatusMatches
	if !hasMatches {
		state.AlertState = AlertClosed
		state.Status = StatusAutoCleared
		status = RecordStatusNoMatches
	}
	for _, m := range matches {
		state.MatchStates = append(state.MatchStates, MatchState{MatchID: m.WatchlistEntryID})
	}

	return &ScreeningRecord{
		ResultID:     p.ResultID,
		RunID:        p.RunID,
		RecordRef:    ref,
		RecordStatus: status,
		HasMatches:   hasMatches,
		InputName:    p.Entity.Name.Resolve(),
		Entity:       p.Entity,
		Matches:      matches,
		State:        state,
	}
}

// TopScore is the highest match score, or 0 without matches.
func (r *ScreeningRecord) TopScore() int {
	if len(r.Matches) == 0 {
		return 0
	}
	return r.Matches[0].Score
}

// Clone returns a deep copy safe to hand across store boundaries.
func (r *ScreeningRecord) Clone() *ScreeningRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.Entity.Addresses = slices.Clone(r.Entity.Addresses)
	c.Entity.IDs = slices.Clone(r.Entity.IDs)
	c.Matches = make([]MatchResult, len(r.Matches))
	for i, m := range r.Matches {
		if m.Address != nil {
			a := *m.Address
			m.Address = &a
		}
		c.Matches[i] = m
	}
	c.State = r.State.Clone()
	return &c
}
