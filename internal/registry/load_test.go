package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsona-dev/finsona/internal/signal"
)

const sampleRegistry = `
version: 2
personas:
  - id: high_utilization
    name: High Credit Utilization
    priority: 1
    criteria:
      signal: credit_max_utilization_pct
      op: ">"
      value: 70
    metadata:
      owner: risk-team
  - id: paycheck_to_paycheck
    name: Paycheck to Paycheck
    priority: 2
    criteria:
      all:
        - signal: cash_flow_buffer_months
          op: "<"
          value: 1
        - signal: has_regular_income
          op: "=="
          value: true
  - id: subscription_heavy
    name: Subscription Heavy
    priority: 3
    criteria:
      any:
        - signal: subscription_share
          op: ">"
          value: 0.25
        - signal: subscription_count
          op: ">="
          value: 8
`

func writeRegistry(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "personas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Sample(t *testing.T) {
	r, err := Load(writeRegistry(t, sampleRegistry))
	require.NoError(t, err)

	assert.Equal(t, 2, r.Version())
	require.Equal(t, 3, r.Len())

	personas := r.Personas()
	assert.Equal(t, "high_utilization", personas[0].ID)
	assert.Equal(t, "risk-team", personas[0].Metadata["owner"])

	leaf, ok := personas[0].Criteria.(Leaf)
	require.True(t, ok)
	assert.Equal(t, CompGT, leaf.Op)
	assert.True(t, leaf.Threshold.Equal(signal.Number(70)))

	all, ok := personas[1].Criteria.(All)
	require.True(t, ok)
	require.Len(t, all.Children, 2)
	boolLeaf, ok := all.Children[1].(Leaf)
	require.True(t, ok)
	assert.True(t, boolLeaf.Threshold.Equal(signal.Bool(true)))

	anyNode, ok := personas[2].Criteria.(Any)
	require.True(t, ok)
	assert.Len(t, anyNode.Children, 2)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading registry")
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse([]byte("personas: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing registry")
}

func TestParse_NodeWithLeafAndGroup(t *testing.T) {
	_, err := Parse([]byte(`
version: 1
personas:
  - id: bad
    name: Bad
    priority: 1
    criteria:
      signal: x
      op: ">"
      value: 1
      all:
        - signal: y
          op: ">"
          value: 2
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of signal/all/any")
}

func TestParse_UnknownComparatorFailsLoad(t *testing.T) {
	_, err := Parse([]byte(`
version: 1
personas:
  - id: bad
    name: Bad
    priority: 1
    criteria:
      signal: x
      op: "between"
      value: 1
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown comparator")
}

func TestParse_DuplicateRanksFailLoad(t *testing.T) {
	_, err := Parse([]byte(`
version: 1
personas:
  - id: a
    name: A
    priority: 1
    criteria: {signal: x, op: ">", value: 1}
  - id: b
    name: B
    priority: 1
    criteria: {signal: x, op: ">", value: 2}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invariant 3")
}

func TestParse_CategoricalThreshold(t *testing.T) {
	r, err := Parse([]byte(`
version: 1
personas:
  - id: weekly_earner
    name: Weekly Earner
    priority: 1
    criteria:
      signal: income_frequency
      op: "=="
      value: weekly
`))
	require.NoError(t, err)

	leaf, ok := r.Personas()[0].Criteria.(Leaf)
	require.True(t, ok)
	assert.True(t, leaf.Threshold.Equal(signal.Category("weekly")))
}
