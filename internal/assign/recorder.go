package assign

import (
	"encoding/json"
	"fmt"

	"github.com/finsona-dev/finsona/internal/match"
	"github.com/finsona-dev/finsona/internal/summary"
)

// Record is the complete decision trace for one evaluation: the
// behavioral summary, every persona's evidence, and the assignment.
// Audit consumers read Matches and Assignment.Reason verbatim, so
// evidence for non-matching personas is never omitted.
type Record struct {
	RunRef          string               `json:"run_ref"`
	RegistryVersion int                  `json:"registry_version"`
	Summary         *summary.Summary     `json:"behavioral_summary"`
	Matches         []match.PersonaMatch `json:"matches"`
	Assignment      *Assignment          `json:"assignment"`
}

// NewRecord packages an evaluation outcome for the caller to persist.
func NewRecord(runRef string, registryVersion int, s *summary.Summary, matches []match.PersonaMatch, assignment *Assignment) *Record {
	return &Record{
		RunRef:          runRef,
		RegistryVersion: registryVersion,
		Summary:         s,
		Matches:         matches,
		Assignment:      assignment,
	}
}

// MarshalIndent renders the record as stable, human-readable JSON.
// Map keys serialize in sorted order, so identical decisions produce
// identical bytes apart from the timestamp.
func (r *Record) MarshalIndent() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling record: %w", err)
	}
	return data, nil
}
