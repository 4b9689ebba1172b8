package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2026, 2, 12, 8, 0, 0, 0, time.UTC)

func newParams(matches ...MatchResult) NewRecordParams {
	return NewRecordParams{
		ResultID:   200001,
		RunID:      100001,
		Entity:     InputEntity{Name: FullName("Mikhail Petrov")},
		Matches:    matches,
		SearchName: "Payments",
		Assignment: DefaultAssignment(),
		Now:        created,
	}
}

func TestNewScreeningRecordWithMatches(t *testing.T) {
	rec := NewScreeningRecord(newParams(
		MatchResult{WatchlistEntryID: "OFAC-002", Score: 100},
		MatchResult{WatchlistEntryID: "OFAC-003", Score: 40},
	))

	assert.True(t, rec.HasMatches)
	assert.Equal(t, RecordStatusMatches, rec.RecordStatus)
	assert.Equal(t, AlertOpen, rec.State.AlertState)
	assert.Equal(t, StatusPendingReview, rec.State.Status)
	assert.Equal(t, 100, rec.TopScore())
	assert.Equal(t, "200001", rec.RecordRef)
	assert.Equal(t, "Mikhail Petrov", rec.InputName)
	assert.Equal(t, []string{"ComplianceTeam"}, rec.State.AssignedTo)
	assert.Equal(t, "Compliance", rec.State.Division)
	assert.Equal(t, "Role", rec.State.AssignmentType)

	require.Len(t, rec.State.History, 1)
	assert.Equal(t, HistoryEntry{
		Date:  created,
		Event: EventRecordCreated,
		User:  ActorSystem,
		Note:  "Screening via predefined search: Payments",
	}, rec.State.History[0])

	require.Len(t, rec.State.MatchStates, 2)
	assert.Equal(t, "OFAC-002", rec.State.MatchStates[0].MatchID)
	assert.Nil(t, rec.State.MatchStates[0].Type)
}

func TestNewScreeningRecordWithoutMatches(t *testing.T) {
	p := newParams()
	p.SearchName = ""
	p.RecordRef = "MSG-1/DBTR"
	rec := NewScreeningRecord(p)

	assert.False(t, rec.HasMatches)
	assert.Equal(t, RecordStatusNoMatches, rec.RecordStatus)
	assert.Equal(t, AlertClosed, rec.State.AlertState)
	assert.Equal(t, StatusAutoCleared, rec.State.Status)
	assert.Equal(t, 0, rec.TopScore())
	assert.Equal(t, "MSG-1/DBTR", rec.RecordRef)
	assert.NotNil(t, rec.Matches)
	assert.Empty(t, rec.State.MatchStates)
	assert.Equal(t, "Screening via predefined search: Default", rec.State.History[0].Note)
}

func TestNewScreeningRecordNormalizesAssignees(t *testing.T) {
	p := newParams(MatchResult{WatchlistEntryID: "OFAC-002", Score: 100})
	p.Assignment.AssignedTo = []string{"  alice ", "ComplianceTeam", "alice", "", "ComplianceTeam "}
	rec := NewScreeningRecord(p)

	assert.Equal(t, []string{"alice", "ComplianceTeam"}, rec.State.AssignedTo)
	assert.Equal(t, []string{"  alice ", "ComplianceTeam", "alice", "", "ComplianceTeam "}, p.Assignment.AssignedTo, "caller's slice is untouched")
}

func TestAssignmentOr(t *testing.T) {
	got := Assignment{Division: "Payments Ops"}.Or(DefaultAssignment())
	assert.Equal(t, Assignment{Division: "Payments Ops", AssignedTo: []string{"ComplianceTeam"}, Type: "Role"}, got)

	got = Assignment{AssignedTo: []string{" ", ""}}.Or(DefaultAssignment())
	assert.Equal(t, []string{"ComplianceTeam"}, got.AssignedTo, "blank assignees fall back")
}

func TestCloneIsDeep(t *testing.T) {
	rec := NewScreeningRecord(newParams(MatchResult{
		WatchlistEntryID: "OFAC-002",
		Score:            100,
		Address:          &AddressMatch{InputValue: "RU", ListValue: "RU", Score: 100, Type: AddressMatchType},
	}))
	c := rec.Clone()

	c.Matches[0].Address.Score = 0
	c.State.History[0].Note = "changed"
	c.State.AssignedTo[0] = "someone"
	tag := "FalsePositive"
	c.State.MatchStates[0].Type = &tag

	assert.Equal(t, 100, rec.Matches[0].Address.Score)
	assert.NotEqual(t, "changed", rec.State.History[0].Note)
	assert.Equal(t, "ComplianceTeam", rec.State.AssignedTo[0])
	assert.Nil(t, rec.State.MatchStates[0].Type)
}

func TestRecordFilter(t *testing.T) {
	open := NewScreeningRecord(newParams(MatchResult{WatchlistEntryID: "OFAC-002", Score: 100}))
	closed := NewScreeningRecord(newParams())
	closed.RunID = 100002

	yes, no := true, false
	assert.True(t, RecordFilter{}.Matches(open))
	assert.True(t, RecordFilter{RunID: 100001}.Matches(open))
	assert.False(t, RecordFilter{RunID: 100001}.Matches(closed))
	assert.True(t, RecordFilter{AlertState: AlertClosed}.Matches(closed))
	assert.False(t, RecordFilter{Status: StatusAutoCleared}.Matches(open))
	assert.True(t, RecordFilter{HasMatches: &yes}.Matches(open))
	assert.True(t, RecordFilter{HasMatches: &no}.Matches(closed))
	assert.False(t, RecordFilter{HasMatches: &no}.Matches(open))
}
