package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/jobfinder-go/internal/export"
	"github.com/raphaelgruber/jobfinder-go/internal/source"
)

// JobReportInput defines the input schema for the job_report tool.
type JobReportInput struct {
	Source string `json:"source,omitempty" jsonschema:"results or favorites. Default results"`
}

// NewJobReportHandler creates the job_report tool handler.
// Returns the tallies plus catalogue statistics as JSON.
func NewJobReportHandler(deps *Dependencies) mcp.ToolHandlerFor[JobReportInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input JobReportInput) (
		*mcp.CallToolResult, any, error,
	) {
		jobs, errResult := exportSource(deps, input.Source)
		if errResult != nil {
			return errResult, nil, nil
		}

		return JSONResult(map[string]any{
			"report":     export.BuildReportAt(jobs, deps.now()),
			"statistics": source.Statistics(jobs),
		}), nil, nil
	}
}
