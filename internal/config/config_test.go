package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, cfg.Records.Timeout)
	assert.Equal(t, 5, cfg.Records.MaxRetries)
	assert.Equal(t, 1500*time.Millisecond, cfg.Records.RetryDelay)
	assert.Equal(t, 30*time.Second, cfg.Dashboard.RefreshInterval)
	assert.Equal(t, 50, cfg.Dashboard.HistoryPerPage)
	assert.Equal(t, 1000.0, cfg.Dashboard.DefaultBalance)
	assert.Equal(t, 0.01, cfg.Dashboard.DefaultRiskPercent)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	content := `
records:
  base_url: "http://localhost:8090"
  retry_delay: 250ms
dashboard:
  history_per_page: 20
logger:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(content), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8090", cfg.Records.BaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Records.RetryDelay)
	assert.Equal(t, 20, cfg.Dashboard.HistoryPerPage)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	// Untouched keys keep their defaults.
	assert.Equal(t, 45*time.Second, cfg.Records.Timeout)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("FOREXRADAR_SERVER_PORT", "9191")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
}

func TestLoadConfig_BadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("records: [unclosed"), 0o644))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}
