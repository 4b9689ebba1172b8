package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StateSuite struct {
	suite.Suite
	rec *ScreeningRecord
	now time.Time
}

func TestStateSuite(t *testing.T) {
	suite.Run(t, new(StateSuite))
}

func (s *StateSuite) SetupTest() {
	s.rec = NewScreeningRecord(newParams(MatchResult{WatchlistEntryID: "OFAC-002", Score: 100}))
	s.now = created.Add(time.Hour)
}

func (s *StateSuite) TestClosingAlert() {
	entry := s.rec.State.Apply(StatePatch{
		AlertState: Some(AlertClosed),
		Status:     Some("False Positive"),
	}, s.now, DefaultReviewer)

	s.Equal(AlertClosed, s.rec.State.AlertState)
	s.Equal("False Positive", s.rec.State.Status)
	s.Equal(EventAlertOpenClose, entry.Event)
	s.Equal(DefaultReviewer, entry.User)
	s.Equal("State changed: Open → Closed", entry.Note)
	s.Equal(s.now, entry.Date)
}

func (s *StateSuite) TestReopeningAlsoUsesOpenCloseEvent() {
	s.rec.State.Apply(StatePatch{AlertState: Some(AlertClosed)}, s.now, DefaultReviewer)
	entry := s.rec.State.Apply(StatePatch{AlertState: Some(AlertOpen)}, s.now, DefaultReviewer)

	s.Equal(AlertOpen, s.rec.State.AlertState)
	s.Equal(EventAlertOpenClose, entry.Event)
	s.Equal("State changed: Closed → Open", entry.Note)
}

func (s *StateSuite) TestDecisionWithoutAlertState() {
	entry := s.rec.State.Apply(StatePatch{
		Note: Some("Escalated to MLRO"),
		User: Some("analyst-7"),
	}, s.now, DefaultReviewer)

	s.Equal(EventDecisionApplied, entry.Event)
	s.Equal("analyst-7", entry.User)
	s.Equal("Escalated to MLRO", entry.Note)
	s.Equal("Escalated to MLRO", s.rec.State.Note)
	s.Equal(AlertOpen, s.rec.State.AlertState)
}

func (s *StateSuite) TestAbsentFieldsRetained() {
	before := s.rec.State.Clone()
	s.rec.State.Apply(StatePatch{Division: Some("Sanctions Desk")}, s.now, DefaultReviewer)

	s.Equal("Sanctions Desk", s.rec.State.Division)
	s.Equal(before.Status, s.rec.State.Status)
	s.Equal(before.AssignedTo, s.rec.State.AssignedTo)
	s.Equal(before.AssignmentType, s.rec.State.AssignmentType)
	s.Equal(before.MatchStates, s.rec.State.MatchStates)
	s.False(s.rec.State.AddedToAcceptList)
}

func (s *StateSuite) TestPresentZeroValuesOverwrite() {
	s.rec.State.Apply(StatePatch{AddedToAcceptList: Some(true)}, s.now, DefaultReviewer)
	s.True(s.rec.State.AddedToAcceptList)

	s.rec.State.Apply(StatePatch{AddedToAcceptList: Some(false)}, s.now, DefaultReviewer)
	s.False(s.rec.State.AddedToAcceptList)
}

func (s *StateSuite) TestAssignedToIsASet() {
	s.rec.State.Apply(StatePatch{AssignedTo: Some([]string{" alice ", "bob", "alice", ""})}, s.now, DefaultReviewer)
	s.Equal([]string{"alice", "bob"}, s.rec.State.AssignedTo)
}

func (s *StateSuite) TestUnknownEnumValuesAccepted() {
	s.rec.State.Apply(StatePatch{AlertState: Some(AlertState("Escalated"))}, s.now, DefaultReviewer)
	s.Equal(AlertState("Escalated"), s.rec.State.AlertState)
}

func (s *StateSuite) TestMatchStatesReplaced() {
	tag := "TruePositive"
	s.rec.State.Apply(StatePatch{MatchStates: Some([]MatchState{{MatchID: "OFAC-002", Type: &tag}})}, s.now, DefaultReviewer)
	tag = "mutated after apply"
	s.Require().Len(s.rec.State.MatchStates, 1)
	s.Equal("TruePositive", *s.rec.State.MatchStates[0].Type)
}

func (s *StateSuite) TestHistoryIsAppendOnly() {
	const n = 5
	first := s.rec.State.History[0]
	for i := range n {
		s.rec.State.Apply(StatePatch{Status: Some("Step")}, s.now.Add(time.Duration(i)*time.Minute), DefaultReviewer)
		s.Len(s.rec.State.History, i+2)
	}
	s.Len(s.rec.State.History, n+1)
	s.Equal(first, s.rec.State.History[0])
	for i := 1; i <= n; i++ {
		s.Equal(s.now.Add(time.Duration(i-1)*time.Minute), s.rec.State.History[i].Date)
	}
}

func TestStatePatchJSON(t *testing.T) {
	var p StatePatch
	require.NoError(t, json.Unmarshal([]byte(`{"AlertState":"Closed","Note":null,"AddedToAcceptList":false}`), &p))

	assert.True(t, p.AlertState.Set)
	assert.Equal(t, AlertClosed, p.AlertState.Value)
	assert.False(t, p.Note.Set, "null is absent")
	assert.False(t, p.Status.Set)
	assert.True(t, p.AddedToAcceptList.Set)
	assert.False(t, p.AddedToAcceptList.Value)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"AlertState":"Closed","AddedToAcceptList":false}`, string(out))
}
