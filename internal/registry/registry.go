// Package registry holds the static, ordered table of persona
// definitions and its load-time validation. The registry is immutable
// after construction and is passed explicitly to every evaluation;
// correctness of the whole pipeline depends on it, so any invalid
// configuration fails the load rather than being repaired.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/finsona-dev/finsona/internal/signal"
)

// Unclassified is the assignment id used when no persona qualifies.
const Unclassified = "unclassified"

// Persona is one behavioral archetype definition.
type Persona struct {
	ID       string
	Name     string
	Priority int // 1 = most urgent; unique and contiguous across the registry
	Criteria Expr
	Metadata map[string]string
}

// ValidationError describes a single registry invariant violation.
type ValidationError struct {
	Invariant   int
	PersonaID   string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.PersonaID, e.Description)
}

// Registry invariants.
const (
	invVersion    = 1 // version must be >= 1
	invUniqueID   = 2 // persona ids non-empty and unique
	invRankSeq    = 3 // priorities form a contiguous unique 1..N sequence
	invNodeShape  = 4 // criteria node has exactly one of signal/all/any
	invLeafFields = 5 // leaf has signal, known comparator, present threshold
	invLeafTypes  = 6 // ordering comparators require numeric thresholds
	invEmptyGroup = 7 // all/any groups must not be empty
)

// Registry is the immutable persona table. Personas are held in
// priority order so every consumer iterates deterministically.
type Registry struct {
	version  int
	personas []Persona
}

// New validates the definitions and constructs a Registry. All
// violations are reported together, not just the first.
func New(version int, personas []Persona) (*Registry, error) {
	var verrs []ValidationError

	if version < 1 {
		verrs = append(verrs, ValidationError{
			Invariant:   invVersion,
			Description: fmt.Sprintf("registry version %d must be >= 1", version),
		})
	}

	seenIDs := make(map[string]bool)
	seenRanks := make(map[int]string)
	for _, p := range personas {
		if p.ID == "" {
			verrs = append(verrs, ValidationError{
				Invariant:   invUniqueID,
				Description: "persona id must not be empty",
			})
		} else if seenIDs[p.ID] {
			verrs = append(verrs, ValidationError{
				Invariant:   invUniqueID,
				PersonaID:   p.ID,
				Description: "duplicate persona id",
			})
		}
		seenIDs[p.ID] = true

		if other, dup := seenRanks[p.Priority]; dup {
			verrs = append(verrs, ValidationError{
				Invariant:   invRankSeq,
				PersonaID:   p.ID,
				Description: fmt.Sprintf("priority %d already used by %s", p.Priority, other),
			})
		}
		seenRanks[p.Priority] = p.ID

		if p.Criteria == nil {
			verrs = append(verrs, ValidationError{
				Invariant:   invNodeShape,
				PersonaID:   p.ID,
				Description: "persona has no criteria",
			})
		} else {
			verrs = append(verrs, validateExpr(p.ID, p.Criteria)...)
		}
	}

	for rank := 1; rank <= len(personas); rank++ {
		if _, ok := seenRanks[rank]; !ok {
			verrs = append(verrs, ValidationError{
				Invariant:   invRankSeq,
				Description: fmt.Sprintf("priority ranks must cover 1..%d; %d is missing", len(personas), rank),
			})
		}
	}

	if len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return nil, fmt.Errorf("registry validation failed: %s", strings.Join(msgs, "; "))
	}

	ordered := make([]Persona, len(personas))
	copy(ordered, personas)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Priority < ordered[j].Priority })

	return &Registry{version: version, personas: ordered}, nil
}

func validateExpr(personaID string, e Expr) []ValidationError {
	var verrs []ValidationError
	switch node := e.(type) {
	case Leaf:
		if node.Signal == "" {
			verrs = append(verrs, ValidationError{
				Invariant:   invLeafFields,
				PersonaID:   personaID,
				Description: "leaf comparison missing signal name",
			})
		}
		if !node.Op.known() {
			verrs = append(verrs, ValidationError{
				Invariant:   invLeafFields,
				PersonaID:   personaID,
				Description: fmt.Sprintf("unknown comparator %q", node.Op),
			})
		}
		if node.Threshold.IsAbsent() {
			verrs = append(verrs, ValidationError{
				Invariant:   invLeafFields,
				PersonaID:   personaID,
				Description: fmt.Sprintf("leaf %s has no threshold", node.Signal),
			})
		}
		if node.Op.ordering() && node.Threshold.Kind() != signal.KindNumber && !node.Threshold.IsAbsent() {
			verrs = append(verrs, ValidationError{
				Invariant:   invLeafTypes,
				PersonaID:   personaID,
				Description: fmt.Sprintf("comparator %s on %s requires a numeric threshold", node.Op, node.Signal),
			})
		}
	case All:
		if len(node.Children) == 0 {
			verrs = append(verrs, ValidationError{
				Invariant:   invEmptyGroup,
				PersonaID:   personaID,
				Description: "empty all-group",
			})
		}
		for _, c := range node.Children {
			verrs = append(verrs, validateExpr(personaID, c)...)
		}
	case Any:
		if len(node.Children) == 0 {
			verrs = append(verrs, ValidationError{
				Invariant:   invEmptyGroup,
				PersonaID:   personaID,
				Description: "empty any-group",
			})
		}
		for _, c := range node.Children {
			verrs = append(verrs, validateExpr(personaID, c)...)
		}
	default:
		verrs = append(verrs, ValidationError{
			Invariant:   invNodeShape,
			PersonaID:   personaID,
			Description: fmt.Sprintf("unknown criteria node %T", e),
		})
	}
	return verrs
}

// Version returns the registry source version.
func (r *Registry) Version() int {
	return r.version
}

// Len returns the number of registered personas.
func (r *Registry) Len() int {
	return len(r.personas)
}

// Personas returns the definitions in priority order. The slice is a
// copy; the registry itself never changes after load.
func (r *Registry) Personas() []Persona {
	out := make([]Persona, len(r.personas))
	copy(out, r.personas)
	return out
}

// ByID returns the persona with the given id.
func (r *Registry) ByID(id string) (Persona, bool) {
	for _, p := range r.personas {
		if p.ID == id {
			return p, true
		}
	}
	return Persona{}, false
}
