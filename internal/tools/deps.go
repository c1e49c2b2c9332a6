// Package tools provides MCP tool handlers and registration.
package tools

import (
	"log/slog"
	"time"

	"github.com/raphaelgruber/jobfinder-go/internal/metrics"
	"github.com/raphaelgruber/jobfinder-go/internal/service"
)

// Dependencies holds shared services for tool handlers.
// Passed to handler factories via closure capture.
type Dependencies struct {
	Search    *service.SearchController
	Favorites *service.FavoritesService
	Metrics   *metrics.Collector
	Logger    *slog.Logger
	ExportDir string
	Now       func() time.Time // defaults to time.Now
}

func (d *Dependencies) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
