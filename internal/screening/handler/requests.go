package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"warden/internal/screening/decision"
	"warden/internal/screening/models"
	"warden/internal/screening/service"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

// maxSearchRecords caps one batch.
const maxSearchRecords = 1000

// recordID accepts the caller's correlation ID as a JSON string or number.
type recordID string

func (r *recordID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = recordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("RecordID must be a string or number")
	}
	*r = recordID(n.String())
	return nil
}

type assignResultTo struct {
	Division     string   `json:"Division"`
	RolesOrUsers []string `json:"RolesOrUsers"`
	Type         string   `json:"Type"`
}

type searchBody struct {
	Configuration struct {
		PredefinedSearchName string         `json:"PredefinedSearchName"`
		AssignResultTo       assignResultTo `json:"AssignResultTo"`
	} `json:"Configuration"`
	Input struct {
		BlockID string `json:"BlockID"`
		Records []struct {
			RecordID recordID           `json:"RecordID"`
			Entity   models.InputEntity `json:"Entity"`
		} `json:"Records"`
	} `json:"Input"`
	ClientContext struct {
		ClientReference string `json:"ClientReference"`
	} `json:"ClientContext"`
}

// SearchRequest is the body of POST /lists/search. The search may be sent
// bare or wrapped in an EntitySearchRequest envelope.
type SearchRequest struct {
	searchBody
	EntitySearchRequest *searchBody `json:"EntitySearchRequest"`
}

func (r *SearchRequest) Validate() error {
	if r.EntitySearchRequest != nil {
		r.searchBody = *r.EntitySearchRequest
		r.EntitySearchRequest = nil
	}
	if n := len(r.Input.Records); n > maxSearchRecords {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("at most %d records per search, got %d", maxSearchRecords, n))
	}
	r.Configuration.PredefinedSearchName = strings.TrimSpace(r.Configuration.PredefinedSearchName)
	return nil
}

func (r *SearchRequest) ToService() service.SearchRequest {
	out := service.SearchRequest{
		Configuration: service.SearchConfiguration{
			PredefinedSearchName: r.Configuration.PredefinedSearchName,
			AssignResultTo: models.Assignment{
				Division:   r.Configuration.AssignResultTo.Division,
				AssignedTo: r.Configuration.AssignResultTo.RolesOrUsers,
				Type:       r.Configuration.AssignResultTo.Type,
			},
		},
		BlockID:         r.Input.BlockID,
		ClientReference: r.ClientContext.ClientReference,
		Records:         make([]service.InputRecord, len(r.Input.Records)),
	}
	for i, rec := range r.Input.Records {
		out.Records[i] = service.InputRecord{RecordID: string(rec.RecordID), Entity: rec.Entity}
	}
	return out
}

// SearchRecordsRequest filters records. Omitted fields match everything.
type SearchRecordsRequest struct {
	RunID      int64  `json:"RunID"`
	AlertState string `json:"AlertState"`
	Status     string `json:"Status"`
	HasMatches *bool  `json:"HasMatches"`
}

func (r *SearchRecordsRequest) Validate() error {
	if r.RunID < 0 {
		return dErrors.New(dErrors.CodeValidation, "RunID must be positive")
	}
	return nil
}

func (r *SearchRecordsRequest) ToFilter() models.RecordFilter {
	return models.RecordFilter{
		RunID:      id.RunID(r.RunID),
		AlertState: models.AlertState(r.AlertState),
		Status:     r.Status,
		HasMatches: r.HasMatches,
	}
}

type SearchRunsRequest struct {
	Status string `json:"Status"`
}

// SetStateRequest is a partial case-state update. The legacy "_user" field
// is accepted when "User" is absent.
type SetStateRequest struct {
	models.StatePatch
	LegacyUser models.Optional[string] `json:"_user,omitzero"`
}

func (r *SetStateRequest) Validate() error {
	if !r.User.Set && r.LegacyUser.Set {
		r.User = r.LegacyUser
	}
	return nil
}

// DecideRequest carries optional thresholds; omitted values use the
// server's configured defaults.
type DecideRequest struct {
	AutoAccept *int `json:"autoAccept"`
	AutoReject *int `json:"autoReject"`
}

func (r *DecideRequest) Thresholds(defaults decision.Thresholds) decision.Thresholds {
	t := defaults
	if r.AutoAccept != nil {
		t.AutoAccept = *r.AutoAccept
	}
	if r.AutoReject != nil {
		t.AutoReject = *r.AutoReject
	}
	return t
}
