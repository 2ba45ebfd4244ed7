package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9090"
  allowedOrigins: ["https://neo.example.com"]
classifier:
  baseUrl: "http://classifier.local"
  timeout: 15s
cache:
  ttl: 1h
sessions:
  maxSessions: 50
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("CLASSIFIER_TIMEOUT", "20s")
	t.Setenv("CACHE_REDIS_ENABLED", "true")
	t.Setenv("CACHE_REDIS_ADDR", "redis://localhost:6379")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.HTTP.AllowedOrigins)
	require.Equal(t, "http://classifier.local", cfg.Classifier.BaseURL)
	require.Equal(t, 20*time.Second, cfg.Classifier.Timeout)
	require.Equal(t, time.Hour, cfg.Cache.TTL)
	require.True(t, cfg.Cache.Enabled)
	require.True(t, cfg.Cache.Redis.Enabled)
	require.Equal(t, 50, cfg.Sessions.MaxSessions)
	require.Equal(t, 30*time.Minute, cfg.Sessions.IdleTTL)
}

func TestValidateRejectsRedisWithoutAddr(t *testing.T) {
	cfg := defaultConfig()
	cfg.Cache.Redis.Enabled = true
	require.ErrorContains(t, cfg.Validate(), "cache.redis.addr")
}

func TestValidateRejectsBadRateLimit(t *testing.T) {
	cfg := defaultConfig()
	cfg.HTTP.RateLimit.Burst = 0
	require.Error(t, cfg.Validate())

	cfg.HTTP.RateLimit.Enabled = false
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load()
	require.ErrorContains(t, err, "read config file")
}
