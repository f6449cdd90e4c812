package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, ":4000", cfg.HTTPAddr)
	require.Equal(t, 10*time.Second, cfg.ShutdownDuration)
	require.False(t, cfg.EnablePprof)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_addr: ":9000"
metrics_addr: ":9090"
log_json: true
allowed_origins: ["https://polls.example.com"]
drain_duration: 1s
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.HTTPAddr)
	require.Equal(t, ":9090", cfg.MetricsAddr)
	require.True(t, cfg.LogJSON)
	require.Equal(t, []string{"https://polls.example.com"}, cfg.AllowedOrigins)
	require.Equal(t, time.Second, cfg.DrainDuration)
	// Untouched fields keep their defaults.
	require.Equal(t, 10*time.Second, cfg.ShutdownDuration)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestEnvAddr(t *testing.T) {
	t.Setenv("PORT", "")
	require.Equal(t, ":4000", EnvAddr(":4000"))

	t.Setenv("PORT", "8123")
	require.Equal(t, ":8123", EnvAddr(":4000"))
}
