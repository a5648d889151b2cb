package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryValidate_OK(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir))

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"registry", "validate", filepath.Join(dir, "personas.yaml")})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "OK: 4 personas, version 1")
}

func TestRegistryValidate_RejectsDuplicateRanks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.yaml")
	bad := `version: 1
personas:
  - id: a
    name: A
    priority: 1
    criteria: {signal: x, op: ">", value: 1}
  - id: b
    name: B
    priority: 1
    criteria: {signal: x, op: ">", value: 2}
`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"registry", "validate", path})
	require.Error(t, root.Execute())
}

func TestRegistryShow_PriorityOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir))

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"registry", "show", filepath.Join(dir, "personas.yaml")})
	require.NoError(t, root.Execute())

	lines := out.String()
	assert.Contains(t, lines, "high_utilization")
	assert.Less(t,
		bytes.Index([]byte(lines), []byte("high_utilization")),
		bytes.Index([]byte(lines), []byte("subscription_heavy")),
		"rank 1 listed before rank 3")
}
