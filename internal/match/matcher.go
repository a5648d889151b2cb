// Package match evaluates every registered persona against a signal
// map, producing one fully evidenced result per persona whether or not
// it matched. Audit consumers read this output verbatim, so evidence is
// never short-circuited away.
package match

import (
	"github.com/finsona-dev/finsona/internal/registry"
	"github.com/finsona-dev/finsona/internal/signal"
)

// Evidence records how one signal compared against one threshold.
type Evidence struct {
	Observed   signal.Value        `json:"observed"`
	Threshold  signal.Value        `json:"threshold"`
	Comparator registry.Comparator `json:"comparator"`
	Satisfied  bool                `json:"satisfied"`
}

// Condition is one evaluated leaf in declaration order. Unlike the
// evidence map it survives multiple references to the same signal.
type Condition struct {
	Description string `json:"description"`
	Satisfied   bool   `json:"satisfied"`
}

// PersonaMatch is the evaluation outcome for a single persona.
type PersonaMatch struct {
	PersonaID           string              `json:"persona_id"`
	PersonaName         string              `json:"persona_name"`
	Priority            int                 `json:"priority"`
	Matched             bool                `json:"matched"`
	Evidence            map[string]Evidence `json:"evidence"`
	Conditions          []Condition         `json:"conditions"`
	SatisfiedConditions []string            `json:"satisfied_conditions"`
}

// Personas evaluates the signal map against every persona in the
// registry, in priority order. The result always has exactly one entry
// per registered persona so "why not X" audits never come up empty.
func Personas(signals signal.Map, reg *registry.Registry) []PersonaMatch {
	defs := reg.Personas()
	out := make([]PersonaMatch, 0, len(defs))
	for _, p := range defs {
		out = append(out, evaluate(signals, p))
	}
	return out
}

func evaluate(signals signal.Map, p registry.Persona) PersonaMatch {
	m := PersonaMatch{
		PersonaID:   p.ID,
		PersonaName: p.Name,
		Priority:    p.Priority,
		Evidence:    make(map[string]Evidence),
	}

	m.Matched = walk(signals, p.Criteria, &m)
	return m
}

// walk evaluates the expression tree. Every leaf is visited and
// recorded even when the boolean outcome is already decided, so the
// evidence is complete for matches and non-matches alike.
func walk(signals signal.Map, e registry.Expr, m *PersonaMatch) bool {
	switch node := e.(type) {
	case registry.Leaf:
		observed := signals.Get(node.Signal)
		satisfied := node.Satisfied(observed)

		m.Evidence[node.Signal] = Evidence{
			Observed:   observed,
			Threshold:  node.Threshold,
			Comparator: node.Op,
			Satisfied:  satisfied,
		}
		desc := registry.Describe(node)
		m.Conditions = append(m.Conditions, Condition{Description: desc, Satisfied: satisfied})
		if satisfied {
			m.SatisfiedConditions = append(m.SatisfiedConditions, desc)
		}
		return satisfied

	case registry.All:
		result := true
		for _, child := range node.Children {
			if !walk(signals, child, m) {
				result = false // keep walking: no short-circuit
			}
		}
		return result

	case registry.Any:
		result := false
		for _, child := range node.Children {
			if walk(signals, child, m) {
				result = true // keep walking: no short-circuit
			}
		}
		return result
	}

	// Unreachable: the registry rejects unknown node kinds at load.
	return false
}
