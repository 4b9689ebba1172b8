package handler

import (
	"strings"

	"warden/internal/webhook/signing"
	dErrors "warden/pkg/domain-errors"
)

type EmitRequest struct {
	ResultID     int64    `json:"resultId"`
	EventType    string   `json:"eventType"`
	DecisionTags []string `json:"decisionTags"`
}

func (r *EmitRequest) Validate() error {
	r.EventType = strings.TrimSpace(r.EventType)
	if r.ResultID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "resultId is required")
	}
	if r.EventType == "" {
		return dErrors.New(dErrors.CodeValidation, "eventType is required")
	}
	return nil
}

// VerifyRequest carries a received webhook: the raw body exactly as
// delivered and its signing headers.
type VerifyRequest struct {
	PayloadJSON string          `json:"payloadJson"`
	Headers     signing.Headers `json:"headers"`
}

func (r *VerifyRequest) Validate() error {
	if r.PayloadJSON == "" {
		return dErrors.New(dErrors.CodeValidation, "payloadJson is required")
	}
	return nil
}
