package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("APPANALYTICS_API_KEY", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APPANALYTICS_API_KEY", "env-key")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CACHE_TTL_SECONDS", "120")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Upstream.APIKey)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Cache.RedisURL)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL())
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("upstream:\n  api_key: file-key\n  base_url: https://example.test\ncache:\n  sqlite_path: /tmp/cache.db\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	t.Setenv("APPANALYTICS_API_KEY", "env-key")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Upstream.APIKey, "env overrides the file")
	assert.Equal(t, "https://example.test", cfg.Upstream.BaseURL)
	assert.Equal(t, "/tmp/cache.db", cfg.Cache.SQLitePath)
}

func TestDefaultTTL(t *testing.T) {
	assert.Equal(t, time.Hour, CacheConfig{}.TTL())
}
