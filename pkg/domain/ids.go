// Package domain holds typed identifiers shared across modules.
//
// Runs and records are numbered from fixed bases so identifiers stay short
// and sortable in case-management screens and webhook payloads. Typed IDs
// keep a RunID from being passed where a ResultID is expected.
package domain

import (
	"strconv"
	"strings"

	dErrors "warden/pkg/domain-errors"
)

const (
	// FirstRunID is the identifier given to the first run after a reset.
	FirstRunID RunID = 100001
	// FirstResultID is the identifier given to the first record after a reset.
	FirstResultID ResultID = 200001

	maxIDLength = 19
)

// RunID identifies one batch screening invocation.
type RunID int64

// ResultID identifies one screening record.
type ResultID int64

func (id RunID) String() string    { return strconv.FormatInt(int64(id), 10) }
func (id ResultID) String() string { return strconv.FormatInt(int64(id), 10) }

// IsNil reports whether the ID is unset.
func (id RunID) IsNil() bool    { return id <= 0 }
func (id ResultID) IsNil() bool { return id <= 0 }

// ParseRunID validates a run identifier received at a trust boundary.
func ParseRunID(s string) (RunID, error) {
	n, err := parsePositive(s, "run ID")
	if err != nil {
		return 0, err
	}
	return RunID(n), nil
}

// ParseResultID validates a record identifier received at a trust boundary.
func ParseResultID(s string) (ResultID, error) {
	n, err := parsePositive(s, "result ID")
	if err != nil {
		return 0, err
	}
	return ResultID(n), nil
}

func parsePositive(s, label string) (int64, error) {
	if s == "" || strings.TrimSpace(s) != s || len(s) > maxIDLength {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	return n, nil
}
