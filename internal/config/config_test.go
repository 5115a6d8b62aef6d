package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"QUESTMAP_STORAGE_BACKEND", "QUESTMAP_DB", "QUESTMAP_BADGER_DIR",
		"QUESTMAP_SUPABASE_URL", "QUESTMAP_SUPABASE_KEY", "QUESTMAP_SUPABASE_TABLE",
		"QUESTMAP_XP_REWARD", "QUESTMAP_LOG_LEVEL", "QUESTMAP_LOG_DEV",
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
storage:
  backend: badger
  badger_dir: /tmp/qm
progress:
  xp_reward: 25
log:
  level: debug
  development: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendBadger, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/qm", cfg.Storage.BadgerDir)
	assert.Equal(t, "kv_store", cfg.Storage.SupabaseTable, "unset keys keep defaults")
	assert.Equal(t, 25, cfg.Progress.XPReward)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "progress:\n  xp_reward: 25\n")
	t.Setenv("QUESTMAP_XP_REWARD", "40")
	t.Setenv("QUESTMAP_LOG_LEVEL", "INFO")
	t.Setenv("QUESTMAP_LOG_DEV", "true")
	t.Setenv("QUESTMAP_DB", "/data/q.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Progress.XPReward)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
	assert.Equal(t, "/data/q.db", cfg.Storage.Path)
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeFile(t, "storage: [not a map"))
	assert.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"defaults", func(*Config) {}, ""},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }, "Storage.Backend must be one of"},
		{"supabase without url", func(c *Config) {
			c.Storage.Backend = BackendSupabase
			c.Storage.SupabaseKey = "k"
		}, "Storage.SupabaseURL is required"},
		{"supabase complete", func(c *Config) {
			c.Storage.Backend = BackendSupabase
			c.Storage.SupabaseURL = "https://x.supabase.co"
			c.Storage.SupabaseKey = "k"
		}, ""},
		{"zero reward", func(c *Config) { c.Progress.XPReward = 0 }, "Progress.XPReward must be at least 1"},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, "Log.Level must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestInvalidEnvIsRejected(t *testing.T) {
	clearEnv(t)
	t.Setenv("QUESTMAP_STORAGE_BACKEND", "mongo")
	_, err := Load("")
	assert.ErrorContains(t, err, "invalid config")
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "questmap", "config.yaml"), p)
}
