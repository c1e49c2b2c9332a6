package tools

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/jobfinder-go/internal/export"
	"github.com/raphaelgruber/jobfinder-go/internal/metrics"
	"github.com/raphaelgruber/jobfinder-go/internal/models"
)

// ExportJobsInput defines the input schema for the export_jobs tool.
type ExportJobsInput struct {
	Format string `json:"format,omitempty" jsonschema:"csv, json or report. Default csv"`
	Source string `json:"source,omitempty" jsonschema:"results or favorites. Default results"`
	Save   bool   `json:"save,omitempty" jsonschema:"Write the file to the export directory instead of returning its content"`
}

// NewExportJobsHandler creates the export_jobs tool handler.
func NewExportJobsHandler(deps *Dependencies) mcp.ToolHandlerFor[ExportJobsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ExportJobsInput) (
		*mcp.CallToolResult, any, error,
	) {
		start := time.Now()

		format := export.FormatCSV
		if input.Format != "" {
			f, err := export.ParseFormat(input.Format)
			if err != nil {
				return ErrorResult(err.Error(), "Use csv, json or report"), nil, nil
			}
			format = f
		}

		jobs, errResult := exportSource(deps, input.Source)
		if errResult != nil {
			return errResult, nil, nil
		}
		if len(jobs) == 0 {
			return ErrorResult("Nothing to export", "Run search_jobs first"), nil, nil
		}

		artifact, err := export.Render(format, jobs, deps.now())
		if err != nil {
			deps.Metrics.RecordFailure(metrics.OpExport, time.Since(start))
			return ErrorResult(err.Error(), ""), nil, nil
		}

		if !input.Save {
			deps.Metrics.RecordTiming(metrics.OpExport, time.Since(start))
			return TextResult(artifact.Content), nil, nil
		}

		path, err := export.Save(deps.ExportDir, artifact)
		if err != nil {
			deps.Metrics.RecordFailure(metrics.OpExport, time.Since(start))
			deps.Logger.Error("export failed", "error", err)
			return ErrorResult("Failed to write export file", "Check the export directory"), nil, nil
		}
		deps.Metrics.RecordTiming(metrics.OpExport, time.Since(start))

		deps.Logger.Info("tool completed",
			"tool", "export_jobs",
			"format", string(format),
			"path", path,
			"count", len(jobs))

		return JSONResult(map[string]any{
			"path":     path,
			"format":   artifact.Format,
			"mimeType": artifact.MIMEType,
			"count":    len(jobs),
		}), nil, nil
	}
}

func exportSource(deps *Dependencies, name string) ([]models.Job, *mcp.CallToolResult) {
	switch name {
	case "", "results":
		return deps.Search.Jobs(), nil
	case "favorites":
		return deps.Favorites.Jobs(), nil
	default:
		return nil, ErrorResult("Unknown source "+name, "Use results or favorites")
	}
}
