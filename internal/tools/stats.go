package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatsInput defines the input schema for the stats tool.
type StatsInput struct {
	Echo string `json:"echo,omitempty" jsonschema:"Optional text echoed back, useful as a liveness check"`
}

// NewStatsHandler creates the stats tool handler.
func NewStatsHandler(deps *Dependencies) mcp.ToolHandlerFor[StatsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input StatsInput) (
		*mcp.CallToolResult, any, error,
	) {
		st := deps.Search.State()
		out := map[string]any{
			"metrics":   deps.Metrics.Snapshot(),
			"loaded":    len(st.Jobs),
			"loading":   st.Loading,
			"favorites": deps.Favorites.Count(),
		}
		if input.Echo != "" {
			out["echo"] = input.Echo
		}
		return JSONResult(out), nil, nil
	}
}
