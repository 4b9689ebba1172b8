package signing

import (
	"time"

	id "warden/pkg/domain"
)

// Event is a signed webhook ready for delivery, kept in the event log.
type Event struct {
	ID           string      `json:"id"`
	ResultID     id.ResultID `json:"resultId"`
	Trigger      EventType   `json:"trigger"`
	Payload      Payload     `json:"payload"`
	PayloadJSON  string      `json:"payloadJson"`
	Headers      Headers     `json:"headers"`
	StringToSign string      `json:"stringToSign"`
	ContentHash  string      `json:"contentHash"`
	Signature    string      `json:"signature"`
	Timestamp    time.Time   `json:"timestamp"`
}

// NewEvent serializes and signs p.
func NewEvent(eventID string, trigger EventType, p Payload, cfg Config, now time.Time) (Event, error) {
	body, err := p.Marshal()
	if err != nil {
		return Event{}, err
	}
	signed, err := Sign(body, cfg, now)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:           eventID,
		ResultID:     p.ResultID,
		Trigger:      trigger,
		Payload:      p,
		PayloadJSON:  string(body),
		Headers:      signed.Headers,
		StringToSign: signed.StringToSign,
		ContentHash:  signed.ContentHash,
		Signature:    signed.Signature,
		Timestamp:    now.UTC(),
	}, nil
}
