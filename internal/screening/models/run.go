package models

import (
	"time"

	id "warden/pkg/domain"
)

// RunStatus is the lifecycle status of a run.
type RunStatus string

// Runs are screened synchronously, so every persisted run is complete.
const RunCompleted RunStatus = "Completed"

// Run summarizes one batch screening invocation.
type Run struct {
	RunID                id.RunID  `json:"RunID"`
	DateCreated          time.Time `json:"DateCreated"`
	DateCompleted        time.Time `json:"DateCompleted"`
	Status               RunStatus `json:"Status"`
	RecordCount          int       `json:"RecordCount"`
	MatchCount           int       `json:"MatchCount"`
	PredefinedSearchName string    `json:"PredefinedSearchName"`
	BlockID              string    `json:"BlockID,omitempty"`
	ClientReference      string    `json:"ClientReference,omitempty"`
}

// RecordFilter selects records. Zero-valued fields match everything.
type RecordFilter struct {
	RunID      id.RunID
	AlertState AlertState
	Status     string
	HasMatches *bool
}

// Matches reports whether r passes every set criterion.
func (f RecordFilter) Matches(r *ScreeningRecord) bool {
	if !f.RunID.IsNil() && r.RunID != f.RunID {
		return false
	}
	if f.AlertState != "" && r.State.AlertState != f.AlertState {
		return false
	}
	if f.Status != "" && r.State.Status != f.Status {
		return false
	}
	if f.HasMatches != nil && r.HasMatches != *f.HasMatches {
		return false
	}
	return true
}

// RunFilter selects runs.
type RunFilter struct {
	Status RunStatus
}

func (f RunFilter) Matches(r *Run) bool {
	return f.Status == "" || r.Status == f.Status
}
