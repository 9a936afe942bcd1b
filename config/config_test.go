package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFullFile(t *testing.T) {
	path := writeConfig(t, `
oracle:
  provider: anthropic
  model: claude-sonnet-4-20250514
  api_key: sk-test
providers:
  hotpepper_key: hp-key
  spotify_client_id: sp-id
loop:
  max_iterations: 10
  turn_budget_seconds: 30
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Oracle.Provider)
	assert.Equal(t, "sk-test", cfg.Oracle.APIKey)
	assert.Equal(t, "hp-key", cfg.Providers.HotpepperKey)
	assert.Equal(t, "sp-id", cfg.Providers.SpotifyID)
	assert.Equal(t, 10, cfg.Loop.MaxIterations)
	assert.Equal(t, 30*time.Second, cfg.Loop.TurnBudget())
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
oracle:
  api_key: sk-test
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Oracle.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Oracle.Model)
	assert.Equal(t, 25, cfg.Loop.MaxIterations)
	assert.Equal(t, 120*time.Second, cfg.Loop.TurnBudget())
}

func TestLoadEnvFallback(t *testing.T) {
	t.Setenv("ORACLE_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("HOTPEPPER_API_KEY", "hp-env")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.Oracle.APIKey)
	assert.Equal(t, "hp-env", cfg.Providers.HotpepperKey)
}

func TestLoadAnthropicKeyFromEnv(t *testing.T) {
	t.Setenv("ORACLE_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENAI_API_KEY", "sk-oai")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "sk-ant", cfg.Oracle.APIKey)
}

func TestLoadFileWinsOverEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	path := writeConfig(t, `
oracle:
  api_key: sk-file
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-file", cfg.Oracle.APIKey)
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	path := writeConfig(t, `
oracle:
  provider: openai
  model: gpt-4o-mini
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadBadProvider(t *testing.T) {
	path := writeConfig(t, `
oracle:
  provider: cohere
  model: command-r
  api_key: sk-test
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadIterationBounds(t *testing.T) {
	path := writeConfig(t, `
oracle:
  api_key: sk-test
loop:
  max_iterations: 500
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
