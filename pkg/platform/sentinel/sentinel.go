package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) and services translate them into domain errors:
//   - ErrNotFound: run, record, or event does not exist in the store
//   - ErrConflict: a record with the same key was already written
//   - ErrUnavailable: backing service temporarily unavailable
//
// Validation failures (unusable names, bad thresholds) use pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
