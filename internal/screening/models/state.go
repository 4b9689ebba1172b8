package models

import (
	"encoding/json"
	"slices"
	"strings"
	"time"

	pstrings "warden/pkg/platform/strings"
)

// AlertState is the open/closed position of a case. Values outside the two
// constants are stored as given.
type AlertState string

const (
	AlertOpen   AlertState = "Open"
	AlertClosed AlertState = "Closed"
)

// HistoryEntry is one line of a record's append-only audit history.
type HistoryEntry struct {
	Date  time.Time `json:"Date"`
	Event string    `json:"Event"`
	User  string    `json:"User"`
	Note  string    `json:"Note"`
}

// MatchState is a reviewer's disposition tag for one match. A nil Type means
// the match has not been dispositioned.
type MatchState struct {
	MatchID string  `json:"MatchID"`
	Type    *string `json:"Type"`
}

// RecordState is the mutable case state of a screening record.
type RecordState struct {
	AlertState        AlertState     `json:"AlertState"`
	Status            string         `json:"Status"`
	Note              string         `json:"Note"`
	AssignedTo        []string       `json:"AssignedTo"`
	AssignmentType    string         `json:"AssignmentType"`
	Division          string         `json:"Division"`
	AddedToAcceptList bool           `json:"AddedToAcceptList"`
	History           []HistoryEntry `json:"History"`
	MatchStates       []MatchState   `json:"MatchStates"`
}

// Clone deep-copies the state.
func (s RecordState) Clone() RecordState {
	c := s
	c.AssignedTo = slices.Clone(s.AssignedTo)
	c.History = slices.Clone(s.History)
	c.MatchStates = cloneMatchStates(s.MatchStates)
	return c
}

// CreatedAt is the date of the creation history entry.
func (s RecordState) CreatedAt() (time.Time, bool) {
	if len(s.History) == 0 {
		return time.Time{}, false
	}
	return s.History[0].Date, true
}

// LastChange returns the most recent history entry.
func (s RecordState) LastChange() (HistoryEntry, bool) {
	if len(s.History) == 0 {
		return HistoryEntry{}, false
	}
	return s.History[len(s.History)-1], true
}

func cloneMatchStates(in []MatchState) []MatchState {
	if in == nil {
		return nil
	}
	out := make([]MatchState, len(in))
	for i, m := range in {
		if m.Type != nil {
			t := *m.Type
			m.Type = &t
		}
		out[i] = m
	}
	return out
}

// Optional marks a patch field as present or absent. Absent fields leave the
// current value untouched; JSON null counts as absent.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// IsZero lets encoding/json omit absent fields with omitzero.
func (o Optional[T]) IsZero() bool {
	return !o.Set
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// StatePatch is a partial update to a RecordState.
type StatePatch struct {
	AlertState        Optional[AlertState]   `json:"AlertState,omitzero"`
	Status            Optional[string]       `json:"Status,omitzero"`
	Note              Optional[string]       `json:"Note,omitzero"`
	AssignedTo        Optional[[]string]     `json:"AssignedTo,omitzero"`
	AssignmentType    Optional[string]       `json:"AssignmentType,omitzero"`
	Division          Optional[string]       `json:"Division,omitzero"`
	AddedToAcceptList Optional[bool]         `json:"AddedToAcceptList,omitzero"`
	MatchStates       Optional[[]MatchState] `json:"MatchStates,omitzero"`
	User              Optional[string]       `json:"User,omitzero"`
}

// Apply overwrites the fields present in p and appends exactly one history
// entry, which it also returns. The actor is p.User or defaultActor; the note
// is p.Note or a summary of the alert state transition.
func (s *RecordState) Apply(p StatePatch, now time.Time, defaultActor string) HistoryEntry {
	previous := s.AlertState

	if v, ok := p.AlertState.Get(); ok {
		s.AlertState = v
	}
	if v, ok := p.Status.Get(); ok {
		s.Status = v
	}
	if v, ok := p.Note.Get(); ok {
		s.Note = v
	}
	if v, ok := p.AssignedTo.Get(); ok {
		s.AssignedTo = pstrings.DedupeAndTrim(v)
	}
	if v, ok := p.AssignmentType.Get(); ok {
		s.AssignmentType = v
	}
	if v, ok := p.Division.Get(); ok {
		s.Division = v
	}
	if v, ok := p.AddedToAcceptList.Get(); ok {
		s.AddedToAcceptList = v
	}
	if v, ok := p.MatchStates.Get(); ok {
		s.MatchStates = cloneMatchStates(v)
	}

	event := EventDecisionApplied
	if p.AlertState.Set {
		event = EventAlertOpenClose
	}
	actor := defaultActor
	if u, ok := p.User.Get(); ok && strings.TrimSpace(u) != "" {
		actor = u
	}
	note := "State changed: " + string(previous) + " → " + string(s.AlertState)
	if n, ok := p.Note.Get(); ok && strings.TrimSpace(n) != "" {
		note = n
	}

	entry := HistoryEntry{Date: now, Event: event, User: actor, Note: note}
	s.History = append(s.History, entry)
	return entry
}
