package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsona-dev/finsona/internal/config"
	"github.com/finsona-dev/finsona/internal/registry"
)

func TestRunInit_CreatesWorkspace(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir))

	// Config loads back.
	cfg, err := config.Load(filepath.Join(dir, "finsona.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "personas.yaml", cfg.Registry)

	// Data files carry headers.
	data, err := os.ReadFile(filepath.Join(dir, "data", "accounts.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "account_id")

	// The sample registry is valid.
	reg, err := registry.Load(filepath.Join(dir, "personas.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 4, reg.Len())
}

func TestRunInit_DoesNotClobberRegistry(t *testing.T) {
	dir := t.TempDir()
	custom := []byte("version: 9\npersonas: []\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "personas.yaml"), custom, 0o644))

	require.NoError(t, runInit(dir))

	data, err := os.ReadFile(filepath.Join(dir, "personas.yaml"))
	require.NoError(t, err)
	assert.Equal(t, custom, data)
}
