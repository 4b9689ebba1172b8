// Package decision converts a record's top match score into a payment
// release decision.
package decision

import (
	"fmt"

	"warden/internal/screening/models"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

// Disposition is the action taken on the payment.
type Disposition string

const (
	AutoRelease   Disposition = "Auto-Release"
	AutoBlock     Disposition = "Auto-Block"
	HoldForReview Disposition = "Hold for Review"
)

// Outcome is a disposition plus the status and code reported to the
// payment system.
type Outcome struct {
	Disposition Disposition `json:"decision"`
	Status      string      `json:"traxStatus"`
	Code        string      `json:"traxCode"`
}

var outcomes = map[Disposition]Outcome{
	AutoRelease:   {Disposition: AutoRelease, Status: "EXTERNAL_ACCEPTED", Code: "PAY_PMT_REL_EXTERNAL_ACCEPTED"},
	AutoBlock:     {Disposition: AutoBlock, Status: "EXTERNAL_REJECTED", Code: "PAY_PMT_REL_EXTERNAL_REJECTED"},
	HoldForReview: {Disposition: HoldForReview, Status: "EXTERNAL_SUSPECT", Code: "PAY_PMT_REL_EXTERNAL_SUSPECT"},
}

// Thresholds split the score range. Scores below AutoAccept release, scores
// at or above AutoReject block, and the rest are held.
type Thresholds struct {
	AutoAccept int `json:"autoAccept"`
	AutoReject int `json:"autoReject"`
}

// DefaultThresholds are the demo values. Production callers pass explicit
// thresholds from configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{AutoAccept: 30, AutoReject: 90}
}

// Validate requires both values in [0,100] and AutoAccept <= AutoReject.
func (t Thresholds) Validate() error {
	if t.AutoAccept < 0 || t.AutoAccept > 100 || t.AutoReject < 0 || t.AutoReject > 100 {
		return dErrors.New(dErrors.CodeInvalidConfiguration,
			fmt.Sprintf("thresholds must be within [0,100], got autoAccept=%d autoReject=%d", t.AutoAccept, t.AutoReject))
	}
	if t.AutoAccept > t.AutoReject {
		return dErrors.New(dErrors.CodeInvalidConfiguration,
			fmt.Sprintf("autoAccept (%d) must not exceed autoReject (%d)", t.AutoAccept, t.AutoReject))
	}
	return nil
}

// Decide maps a top score to an outcome. It does not validate t; callers
// validate thresholds once at the boundary.
func Decide(topScore int, hasMatches bool, t Thresholds) Outcome {
	switch {
	case !hasMatches || topScore < t.AutoAccept:
		return outcomes[AutoRelease]
	case topScore >= t.AutoReject:
		return outcomes[AutoBlock]
	default:
		return outcomes[HoldForReview]
	}
}

// RecordDecision is the outcome for one record of a run.
type RecordDecision struct {
	ResultID   id.ResultID `json:"ResultID"`
	RecordRef  string      `json:"Record"`
	InputName  string      `json:"InputName"`
	TopScore   int         `json:"topScore"`
	HasMatches bool        `json:"HasScreeningListMatches"`
	Outcome
	Thresholds Thresholds `json:"thresholds"`
}

// ApplyBatch decides every record with the same thresholds, in input order.
func ApplyBatch(records []*models.ScreeningRecord, t Thresholds) []RecordDecision {
	out := make([]RecordDecision, 0, len(records))
	for _, r := range records {
		top := r.TopScore()
		out = append(out, RecordDecision{
			ResultID:   r.ResultID,
			RecordRef:  r.RecordRef,
			InputName:  r.InputName,
			TopScore:   top,
			HasMatches: r.HasMatches,
			Outcome:    Decide(top, r.HasMatches, t),
			Thresholds: t,
		})
	}
	return out
}

// Summary counts decisions by disposition.
func Summary(decisions []RecordDecision) map[Disposition]int {
	counts := map[Disposition]int{AutoRelease: 0, AutoBlock: 0, HoldForReview: 0}
	for _, d := range decisions {
		counts[d.Disposition]++
	}
	return counts
}
