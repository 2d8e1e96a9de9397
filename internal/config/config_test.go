package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerWithoutPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadServer("")
	require.NoError(t, err)
	assert.Equal(t, DefaultServer(), cfg)
}

func TestLoadServerOverridesFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arena.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9090\"\nlog_level: debug\n"), 0o644))

	cfg, err := LoadServer(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DefaultServer().InterpreterPath, cfg.InterpreterPath)
}

func TestLoadLimitsWithoutPathReturnsDefaults(t *testing.T) {
	limits, err := LoadLimits("")
	require.NoError(t, err)
	assert.Equal(t, 1000*time.Millisecond, limits.Deadline)
}

func TestLoadLimitsOverridesFromTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limits.toml")
	require.NoError(t, os.WriteFile(path, []byte("deadline_ms = 500\nfuel = 123\n"), 0o644))

	limits, err := LoadLimits(path)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, limits.Deadline)
	assert.EqualValues(t, 123, limits.Fuel)
}
