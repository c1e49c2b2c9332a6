// Package app assembles the listing source, search controller and favorites
// store shared by the CLI and the MCP server.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/raphaelgruber/jobfinder-go/internal/config"
	"github.com/raphaelgruber/jobfinder-go/internal/db"
	"github.com/raphaelgruber/jobfinder-go/internal/metrics"
	"github.com/raphaelgruber/jobfinder-go/internal/service"
	"github.com/raphaelgruber/jobfinder-go/internal/source"
)

// App holds the long-lived components of one process.
type App struct {
	Config    config.Config
	Logger    *slog.Logger
	Metrics   *metrics.Collector
	Source    *source.Mock
	Search    *service.SearchController
	Favorites *service.FavoritesService
	Store     db.Store
}

// New wires everything from cfg. An unreachable storage backend falls back
// to memory so the browser keeps working without persistence.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) *App {
	collector := metrics.NewCollector()

	opts := []source.MockOption{
		source.WithLatency(cfg.LatencyMin, cfg.LatencyMax),
		source.WithMaxPages(cfg.MaxPages),
		source.WithTotalCount(cfg.TotalCount),
		source.WithLogger(logger),
	}
	if cfg.Seed != 0 {
		opts = append(opts, source.WithSeed(cfg.Seed))
	}
	mock := source.NewMock(opts...)

	store := db.OpenOrMemory(ctx, cfg.Store(), logger)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: collector,
		Source:  mock,
		Search: service.NewSearchController(mock,
			service.WithPageSize(cfg.PageSize),
			service.WithDefaultLocation(cfg.DefaultLocation),
			service.WithSearchMetrics(collector),
			service.WithSearchLogger(logger),
		),
		Favorites: service.NewFavoritesService(ctx, store,
			service.WithFavoritesKey(cfg.FavoritesKey),
			service.WithFavoritesMetrics(collector),
			service.WithFavoritesLogger(logger),
		),
		Store: store,
	}
}

// Close releases the storage backend.
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.Store.Close(ctx)
}
