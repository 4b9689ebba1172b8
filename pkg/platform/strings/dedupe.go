// Package strings provides string helpers shared by the screening modules.
package strings

import (
	"strings"
)

// DedupeAndTrim treats values as a set: elements are trimmed, blanks are
// dropped, and later duplicates are removed. Order of first occurrence is kept.
//
//	DedupeAndTrim([]string{"  ComplianceTeam ", "alice", "ComplianceTeam", ""})
//	// Returns: []string{"ComplianceTeam", "alice"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}

// JoinNonEmpty joins the parts that are not blank after trimming.
//
//	JoinNonEmpty(", ", "100 Main Street", "", "New York", "US")
//	// Returns: "100 Main Street, New York, US"
func JoinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
