package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Timing.UndoWindow)
	assert.Equal(t, "Asia/Bangkok", cfg.Timing.RaceTimezone)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("PORT", "9090")
	path := writeConfig(t, `
timing:
  undo_window: 8s
server:
  port: "7000"
  allowed_origins: ["https://results.example.org"]
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8*time.Second, cfg.Timing.UndoWindow)
	assert.Equal(t, "Asia/Bangkok", cfg.Timing.RaceTimezone, "unset keys keep defaults")
	assert.Equal(t, []string{"https://results.example.org"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "9090", cfg.Server.Port, "PORT wins over the file")
}

func TestLoadConfigRejects(t *testing.T) {
	_, err := loadConfig(writeConfig(t, "timing:\n  undo_window: -1s\n"))
	assert.Error(t, err)

	_, err = loadConfig(writeConfig(t, "timing: [not, a, map]\n"))
	assert.Error(t, err)
}

func TestRaceLocation(t *testing.T) {
	cfg := defaultConfig()
	noon := time.Date(2026, 3, 1, 5, 0, 0, 0, time.UTC).In(cfg.raceLocation())
	_, offset := noon.Zone()
	assert.Equal(t, 7*60*60, offset)

	cfg.Timing.RaceTimezone = "Nowhere/Invalid"
	_, offset = noon.In(cfg.raceLocation()).Zone()
	assert.Equal(t, 7*60*60, offset)
}
