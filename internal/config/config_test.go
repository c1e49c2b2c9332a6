package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/raphaelgruber/jobfinder-go/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"JOBFINDER_PAGE_SIZE", "JOBFINDER_MAX_PAGES", "JOBFINDER_STORE",
		"JOBFINDER_FAVORITES_KEY", "JOBFINDER_LOG_LEVEL", "JOBFINDER_LATENCY_MIN",
		"JOBFINDER_LATENCY_MAX", "JOBFINDER_DEFAULT_LOCATION",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, 25, cfg.MaxPages)
	assert.Equal(t, 500, cfg.TotalCount)
	assert.Equal(t, "Brasil", cfg.DefaultLocation)
	assert.Equal(t, 600*time.Millisecond, cfg.LatencyMin)
	assert.Equal(t, time.Second, cfg.LatencyMax)
	assert.Equal(t, "file", cfg.StoreBackend)
	assert.Equal(t, "job-favorites", cfg.FavoritesKey)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("JOBFINDER_PAGE_SIZE", "5")
	t.Setenv("JOBFINDER_LATENCY_MIN", "0")
	t.Setenv("JOBFINDER_LATENCY_MAX", "0s")
	t.Setenv("JOBFINDER_STORE", "sqlite")
	t.Setenv("JOBFINDER_SEED", "7")
	t.Setenv("JOBFINDER_LOG_LEVEL", "debug")

	cfg := FromEnv()
	assert.Equal(t, 5, cfg.PageSize)
	assert.Equal(t, time.Duration(0), cfg.LatencyMin)
	assert.Equal(t, time.Duration(0), cfg.LatencyMax)
	assert.Equal(t, "sqlite", cfg.StoreBackend)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestFromEnvInvalidValuesFallBack(t *testing.T) {
	t.Setenv("JOBFINDER_PAGE_SIZE", "lots")
	t.Setenv("JOBFINDER_MAX_PAGES", "-3")
	t.Setenv("JOBFINDER_LATENCY_MIN", "soon")

	cfg := FromEnv()
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, 25, cfg.MaxPages)
	assert.Equal(t, 600*time.Millisecond, cfg.LatencyMin)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}

func TestLoadFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobfinder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source:
  page_size: 10
  latency_min: 0s
  latency_max: 50ms
store:
  backend: redis
  redis_url: redis://cache:6379/1
  surrealdb:
    namespace: jobs
log:
  level: warn
`), 0o644))

	base := Config{PageSize: 20, MaxPages: 25, StoreBackend: "file", LatencyMin: time.Second, SurrealDBNamespace: "x", DefaultLocation: "Brasil"}
	cfg, err := LoadFile(base, path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 25, cfg.MaxPages, "unset values keep the base")
	assert.Equal(t, time.Duration(0), cfg.LatencyMin)
	assert.Equal(t, 50*time.Millisecond, cfg.LatencyMax)
	assert.Equal(t, "redis", cfg.StoreBackend)
	assert.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
	assert.Equal(t, "jobs", cfg.SurrealDBNamespace)
	assert.Equal(t, "Brasil", cfg.DefaultLocation)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(Config{}, filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("source: [unclosed"), 0o644))
	_, err = LoadFile(Config{}, bad)
	require.Error(t, err)
}

func TestLoadUsesConfigEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobfinder.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  backend: memory\n"), 0o644))
	t.Setenv("JOBFINDER_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.StoreBackend)
}

func TestStoreConfig(t *testing.T) {
	cfg := Config{StoreBackend: "surrealdb", DataDir: "/data", SurrealDBURL: "ws://db:8000/rpc", SurrealDBAuthLevel: "database"}
	sc := cfg.Store()
	assert.Equal(t, db.BackendSurrealDB, sc.Backend)
	assert.Equal(t, "/data", sc.DataDir)
	assert.Equal(t, "ws://db:8000/rpc", sc.Surreal.URL)
	assert.Equal(t, "database", sc.Surreal.AuthLevel)
}

func TestSetupLoggerWithWriters(t *testing.T) {
	var console, file bytes.Buffer
	logger := SetupLoggerWithWriters(&console, &file, slog.LevelInfo)

	logger.Info("page fetched", "page", 2)
	logger.Debug("hidden")

	assert.Contains(t, console.String(), "page fetched")
	assert.NotContains(t, console.String(), "hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(file.String())), &entry))
	assert.Equal(t, "page fetched", entry["msg"])
	assert.Equal(t, float64(2), entry["page"])
}

func TestSetupLoggerFileOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "jobfinder.log")
	logger, cleanup := SetupLogger(path, slog.LevelInfo, nil)
	logger.Info("hello")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}
