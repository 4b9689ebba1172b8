// Package signing builds webhook payloads for screening records and signs
// them with an HMAC-SHA256 canonical-request scheme.
package signing

import (
	"bytes"
	"encoding/json"
	"time"

	"warden/internal/screening/models"
	id "warden/pkg/domain"
)

// EventType is the trigger requested by the caller.
type EventType string

const (
	AlertStateClosed     EventType = "AlertStateClosed"
	AlertDecisionApplied EventType = "AlertDecisionApplied"
)

// Wire names for the payload's EventType field.
const (
	wireAlertClosed     = "AlertClosed"
	wireDecisionApplied = "AlertDecisionApplied"
)

// WireName maps the trigger to the payload value. Anything other than
// AlertStateClosed is reported as a decision.
func (e EventType) WireName() string {
	if e == AlertStateClosed {
		return wireAlertClosed
	}
	return wireDecisionApplied
}

const isoMillis = "2006-01-02T15:04:05.000Z"

// Payload is the webhook body. Field order is part of the wire contract
// because the body is hashed as serialized. Note and AddedToAcceptList are
// presence markers so case notes never leave the system.
type Payload struct {
	ResultID          id.ResultID `json:"ResultId"`
	EventType         string      `json:"EventType"`
	Status            string      `json:"Status"`
	DateCreated       string      `json:"DateCreated"`
	DateModified      string      `json:"DateModified"`
	State             string      `json:"State"`
	AssignedTo        string      `json:"AssignedTo"`
	AssignmentType    string      `json:"AssignmentType"`
	Note              int         `json:"Note,omitempty"`
	DecisionTags      []string    `json:"DecisionTags,omitempty"`
	AddedToAcceptList int         `json:"AddedToAcceptList,omitempty"`
}

// NewPayload summarizes rec's current case state.
func NewPayload(rec *models.ScreeningRecord, event EventType, decisionTags []string, now time.Time) Payload {
	st := rec.State
	created := now
	if t, ok := st.CreatedAt(); ok {
		created = t
	}
	p := Payload{
		ResultID:       rec.ResultID,
		EventType:      event.WireName(),
		Status:         st.Status,
		DateCreated:    created.UTC().Format(isoMillis),
		DateModified:   now.UTC().Format(isoMillis),
		State:          string(st.AlertState),
		AssignmentType: st.AssignmentType,
	}
	if len(st.AssignedTo) > 0 {
		p.AssignedTo = st.AssignedTo[0]
	}
	if st.Note != "" {
		p.Note = 1
	}
	if len(decisionTags) > 0 {
		p.DecisionTags = decisionTags
	}
	if st.AddedToAcceptList {
		p.AddedToAcceptList = 1
	}
	return p
}

// Marshal serializes the payload exactly as it is hashed and sent. HTML
// characters are kept literal so receivers hash the same bytes they parse.
func (p Payload) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
