package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/raphaelgruber/jobfinder-go/internal/config"
	"github.com/raphaelgruber/jobfinder-go/internal/db"
	"github.com/raphaelgruber/jobfinder-go/internal/models"
	"github.com/raphaelgruber/jobfinder-go/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	cfg := config.FromEnv()
	cfg.StoreBackend = db.BackendFile
	cfg.DataDir = t.TempDir()
	cfg.LatencyMin, cfg.LatencyMax = 0, 0
	cfg.Seed = 42
	cfg.PageSize = 5
	cfg.MaxPages = 2
	return cfg
}

func TestNewWiresComponents(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(t)

	a := New(ctx, cfg, logger)
	t.Cleanup(func() { _ = a.Close() })

	assert.Equal(t, 5, a.Search.PageSize())
	assert.IsType(t, &db.File{}, a.Store)

	outcome := a.Search.ResetAndSearch(ctx, models.SearchParams{Keywords: "Redator"})
	require.Equal(t, service.OutcomeFetched, outcome)
	assert.Len(t, a.Search.Jobs(), 5)

	assert.Equal(t, service.OutcomeFetched, a.Search.LoadMore(ctx, a.Search.State().Params))
	assert.False(t, a.Search.State().HasMore)

	a.Favorites.Toggle(ctx, a.Search.Jobs()[0])

	// a second process over the same data dir sees the favorite
	again := New(ctx, cfg, logger)
	t.Cleanup(func() { _ = again.Close() })
	assert.Equal(t, 1, again.Favorites.Count())

	snap := a.Metrics.Snapshot()
	assert.Equal(t, int64(2), snap.Operations["source_fetch"].Count)
	assert.Equal(t, int64(1), snap.Operations["favorites_persist"].Count)
}

func TestNewFallsBackToMemory(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := testConfig(t)
	cfg.StoreBackend = "carrier-pigeon"

	a := New(ctx, cfg, logger)
	assert.IsType(t, &db.Memory{}, a.Store)
}
