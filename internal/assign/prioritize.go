// Package assign selects one persona from the qualifying set and
// packages the decision with its audit trail. Selection is purely
// rank-driven: given identical matches the assignment is byte-identical
// (excluding timestamp) across calls and process restarts.
package assign

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/finsona-dev/finsona/internal/match"
	"github.com/finsona-dev/finsona/internal/registry"
)

// ErrRankCollision reports two qualifying personas with the same
// priority. The registry's unique-rank invariant makes this impossible
// for a valid registry, so hitting it means configuration corruption;
// it must never be silently resolved.
var ErrRankCollision = errors.New("priority rank collision")

// ReasonNoQualifiers is the prioritization reason when nothing matched.
const ReasonNoQualifiers = "no qualifying personas found"

// QualifyingPersona is one matched persona in the assignment's
// qualifying list.
type QualifyingPersona struct {
	PersonaID string `json:"persona_id"`
	Name      string `json:"name"`
	Priority  int    `json:"priority"`
}

// Assignment is the final classification decision. Priority is nil for
// the unclassified result. The caller owns persistence.
type Assignment struct {
	PersonaID  string              `json:"persona_id"`
	Priority   *int                `json:"priority"`
	Qualifying []QualifyingPersona `json:"qualifying"`
	Reason     string              `json:"reason"`
	AssignedAt time.Time           `json:"assigned_at"`
}

// Prioritize selects the qualifying persona with the lowest rank
// number (1 = most urgent), or the explicit unclassified result when
// nothing matched. The timestamp is injected so the decision itself
// stays a pure function of the matches.
func Prioritize(matches []match.PersonaMatch, now time.Time) (*Assignment, error) {
	qualifying := make([]QualifyingPersona, 0, len(matches))
	for _, m := range matches {
		if m.Matched {
			qualifying = append(qualifying, QualifyingPersona{
				PersonaID: m.PersonaID,
				Name:      m.PersonaName,
				Priority:  m.Priority,
			})
		}
	}

	if len(qualifying) == 0 {
		return &Assignment{
			PersonaID:  registry.Unclassified,
			Qualifying: []QualifyingPersona{},
			Reason:     ReasonNoQualifiers,
			AssignedAt: now,
		}, nil
	}

	sort.Slice(qualifying, func(i, j int) bool {
		return qualifying[i].Priority < qualifying[j].Priority
	})

	for i := 1; i < len(qualifying); i++ {
		if qualifying[i].Priority == qualifying[i-1].Priority {
			return nil, fmt.Errorf("%w: %s and %s both have rank %d",
				ErrRankCollision, qualifying[i-1].PersonaID, qualifying[i].PersonaID, qualifying[i].Priority)
		}
	}

	selected := qualifying[0]
	reason := fmt.Sprintf("selected %s (rank %d); sole qualifying persona", selected.PersonaID, selected.Priority)
	if len(qualifying) > 1 {
		runnerUp := qualifying[1]
		reason = fmt.Sprintf("selected %s (rank %d) over %s (rank %d)",
			selected.PersonaID, selected.Priority, runnerUp.PersonaID, runnerUp.Priority)
	}

	priority := selected.Priority
	return &Assignment{
		PersonaID:  selected.PersonaID,
		Priority:   &priority,
		Qualifying: qualifying,
		Reason:     reason,
		AssignedAt: now,
	}, nil
}
