package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsona-dev/finsona/internal/registry"
	"github.com/finsona-dev/finsona/internal/signal"
)

func mustRegistry(t *testing.T, personas ...registry.Persona) *registry.Registry {
	t.Helper()
	r, err := registry.New(1, personas)
	require.NoError(t, err)
	return r
}

func gt(name string, threshold float64) registry.Leaf {
	return registry.Leaf{Signal: name, Op: registry.CompGT, Threshold: signal.Number(threshold)}
}

func TestPersonas_OneEntryPerPersonaAlways(t *testing.T) {
	reg := mustRegistry(t,
		registry.Persona{ID: "a", Name: "A", Priority: 1, Criteria: gt("x", 10)},
		registry.Persona{ID: "b", Name: "B", Priority: 2, Criteria: gt("y", 10)},
		registry.Persona{ID: "c", Name: "C", Priority: 3, Criteria: gt("z", 10)},
	)

	matches := Personas(signal.Map{"x": signal.Number(50)}, reg)
	require.Len(t, matches, 3, "every registered persona appears, matched or not")

	assert.True(t, matches[0].Matched)
	assert.False(t, matches[1].Matched)
	assert.False(t, matches[2].Matched)

	// Non-matches still carry full evidence.
	ev, ok := matches[1].Evidence["y"]
	require.True(t, ok)
	assert.True(t, ev.Observed.IsAbsent())
	assert.False(t, ev.Satisfied)
}

func TestPersonas_AbsentSignalNeverMatches(t *testing.T) {
	reg := mustRegistry(t,
		registry.Persona{ID: "high_util", Name: "High Utilization", Priority: 1,
			Criteria: gt("credit_max_utilization_pct", 70)},
	)

	// Map without the signal: matched=false for every persona citing it.
	matches := Personas(signal.Map{"subscription_share": signal.Number(0.9)}, reg)
	require.Len(t, matches, 1)
	assert.False(t, matches[0].Matched)

	ev := matches[0].Evidence["credit_max_utilization_pct"]
	assert.Equal(t, "absent", ev.Observed.String())
}

func TestPersonas_AndOrComposition(t *testing.T) {
	criteria := registry.All{Children: []registry.Expr{
		gt("a", 1),
		registry.Any{Children: []registry.Expr{gt("b", 1), gt("c", 1)}},
	}}
	reg := mustRegistry(t, registry.Persona{ID: "p", Name: "P", Priority: 1, Criteria: criteria})

	cases := []struct {
		name    string
		signals signal.Map
		want    bool
	}{
		{"all satisfied", signal.Map{"a": signal.Number(2), "b": signal.Number(2)}, true},
		{"or branch via c", signal.Map{"a": signal.Number(2), "c": signal.Number(2)}, true},
		{"and arm fails", signal.Map{"b": signal.Number(2)}, false},
		{"or empty-handed", signal.Map{"a": signal.Number(2)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			matches := Personas(tc.signals, reg)
			assert.Equal(t, tc.want, matches[0].Matched)
		})
	}
}

func TestPersonas_EvidenceNeverShortCircuits(t *testing.T) {
	// First AND child fails; the second must still be evaluated and
	// recorded so "why not" audits see the whole picture.
	criteria := registry.All{Children: []registry.Expr{gt("a", 100), gt("b", 1)}}
	reg := mustRegistry(t, registry.Persona{ID: "p", Name: "P", Priority: 1, Criteria: criteria})

	matches := Personas(signal.Map{"a": signal.Number(5), "b": signal.Number(5)}, reg)
	m := matches[0]

	assert.False(t, m.Matched)
	require.Len(t, m.Conditions, 2)
	assert.False(t, m.Conditions[0].Satisfied)
	assert.True(t, m.Conditions[1].Satisfied)

	evB, ok := m.Evidence["b"]
	require.True(t, ok, "second leaf evaluated despite decided outcome")
	assert.True(t, evB.Satisfied)

	// OR side: a satisfied first branch must not skip the second.
	criteria2 := registry.Any{Children: []registry.Expr{gt("a", 1), gt("b", 100)}}
	reg2 := mustRegistry(t, registry.Persona{ID: "p", Name: "P", Priority: 1, Criteria: criteria2})

	m2 := Personas(signal.Map{"a": signal.Number(5), "b": signal.Number(5)}, reg2)[0]
	assert.True(t, m2.Matched)
	require.Len(t, m2.Conditions, 2)
	assert.False(t, m2.Conditions[1].Satisfied)
}

func TestPersonas_SatisfiedConditionDescriptions(t *testing.T) {
	reg := mustRegistry(t, registry.Persona{
		ID: "sub_heavy", Name: "Subscription Heavy", Priority: 1,
		Criteria: gt("subscription_share", 0.25),
	})

	m := Personas(signal.Map{"subscription_share": signal.Number(0.32)}, reg)[0]
	require.Len(t, m.SatisfiedConditions, 1)
	assert.Equal(t, "subscription_share > 0.25", m.SatisfiedConditions[0])
}

func TestPersonas_DuplicateSignalReferenceKeepsAllConditions(t *testing.T) {
	// A band check references the same signal twice; the evidence map
	// collapses to one key but the condition list keeps both.
	criteria := registry.All{Children: []registry.Expr{
		registry.Leaf{Signal: "x", Op: registry.CompGE, Threshold: signal.Number(10)},
		registry.Leaf{Signal: "x", Op: registry.CompLE, Threshold: signal.Number(20)},
	}}
	reg := mustRegistry(t, registry.Persona{ID: "band", Name: "Band", Priority: 1, Criteria: criteria})

	m := Personas(signal.Map{"x": signal.Number(15)}, reg)[0]
	assert.True(t, m.Matched)
	assert.Len(t, m.Evidence, 1)
	assert.Len(t, m.Conditions, 2)
}
