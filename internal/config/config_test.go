package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "leads.db", cfg.Store.Path)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.ExtractModel)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.BriefModel)
	assert.Equal(t, int64(2048), cfg.Anthropic.ExtractMaxTokens)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Mirror.Enabled)
	assert.Equal(t, "leads", cfg.Mirror.Dir)
	assert.Equal(t, 4, cfg.Backfill.Concurrency)
	assert.Equal(t, "dummy", cfg.Credit.Mode)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/intake
server:
  port: 9090
mirror:
  enabled: false
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/intake", cfg.Store.DatabaseURL)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.False(t, cfg.Mirror.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched keys keep defaults.
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.ExtractModel)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("INTAKE_ANTHROPIC_KEY", "sk-test-key")
	t.Setenv("INTAKE_STORE_DRIVER", "postgres")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test-key", cfg.Anthropic.Key)
	assert.Equal(t, "postgres", cfg.Store.Driver)
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	require.Error(t, err)
}

func TestInitLogger_Console(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
}
