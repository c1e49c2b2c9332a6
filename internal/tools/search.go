package tools

import (
	"context"
	"slices"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/jobfinder-go/internal/models"
	"github.com/raphaelgruber/jobfinder-go/internal/service"
)

// SearchJobsInput defines the input schema for the search_jobs tool.
type SearchJobsInput struct {
	Keywords string `json:"keywords,omitempty" jsonschema:"Role or keywords, e.g. Redator. Empty searches every role"`
	Location string `json:"location,omitempty" jsonschema:"City or region, defaults to Brasil"`
	Mode     string `json:"mode,omitempty" jsonschema:"Work mode filter: Remoto, Presencial or Híbrido"`
	Append   bool   `json:"append,omitempty" jsonschema:"Keep current results and append instead of starting over"`
}

// NewSearchJobsHandler creates the search_jobs tool handler.
func NewSearchJobsHandler(deps *Dependencies) mcp.ToolHandlerFor[SearchJobsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchJobsInput) (
		*mcp.CallToolResult, any, error,
	) {
		params := models.SearchParams{
			Keywords: strings.TrimSpace(input.Keywords),
			Location: strings.TrimSpace(input.Location),
			Mode:     strings.TrimSpace(input.Mode),
		}
		if params.Mode != "" && !slices.Contains(models.Modes, params.Mode) {
			return ErrorResult("Unknown work mode "+params.Mode, "Use one of: "+strings.Join(models.Modes, ", ")), nil, nil
		}

		before := 0
		var outcome service.Outcome
		if input.Append {
			before = len(deps.Search.Jobs())
			outcome = deps.Search.Search(ctx, params, false)
		} else {
			outcome = deps.Search.ResetAndSearch(ctx, params)
		}

		st := deps.Search.State()
		if outcome == service.OutcomeFailed {
			return ErrorResult(st.Err, "Run search_jobs again to retry"), nil, nil
		}

		deps.Logger.Info("tool completed",
			"tool", "search_jobs",
			"outcome", outcome.String(),
			"loaded", len(st.Jobs))

		return JSONResult(pageView(deps, outcome, st, before)), nil, nil
	}
}

// LoadMoreInput defines the input schema for the load_more tool.
type LoadMoreInput struct{}

// NewLoadMoreHandler creates the load_more tool handler.
// It continues the current search with the next page.
func NewLoadMoreHandler(deps *Dependencies) mcp.ToolHandlerFor[LoadMoreInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input LoadMoreInput) (
		*mcp.CallToolResult, any, error,
	) {
		current := deps.Search.State()
		outcome := deps.Search.LoadMore(ctx, current.Params)

		st := deps.Search.State()
		if outcome == service.OutcomeFailed {
			return ErrorResult(st.Err, "Pagination is disabled until search_jobs runs again"), nil, nil
		}

		deps.Logger.Info("tool completed",
			"tool", "load_more",
			"outcome", outcome.String(),
			"page", st.Page)

		return JSONResult(pageView(deps, outcome, st, len(current.Jobs))), nil, nil
	}
}

// ListJobsInput defines the input schema for the list_jobs tool.
type ListJobsInput struct {
	Offset    int  `json:"offset,omitempty" jsonschema:"Index of the first listing to return"`
	Limit     int  `json:"limit,omitempty" jsonschema:"Max listings 1-100, default 20"`
	Favorites bool `json:"favorites,omitempty" jsonschema:"Only listings that are favorited"`
	Fresh     bool `json:"fresh,omitempty" jsonschema:"Only listings published in the last 24 hours"`
}

// NewListJobsHandler creates the list_jobs tool handler.
func NewListJobsHandler(deps *Dependencies) mcp.ToolHandlerFor[ListJobsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListJobsInput) (
		*mcp.CallToolResult, any, error,
	) {
		limit := input.Limit
		if limit <= 0 {
			limit = 20
		}
		if limit > 100 {
			return ErrorResult("Limit must be 1-100", "Reduce limit value"), nil, nil
		}
		if input.Offset < 0 {
			return ErrorResult("Offset cannot be negative", ""), nil, nil
		}

		st := deps.Search.State()
		views := toViews(deps, st.Jobs)
		filtered := views[:0]
		for _, v := range views {
			if input.Favorites && !v.Favorite {
				continue
			}
			if input.Fresh && !v.Fresh {
				continue
			}
			filtered = append(filtered, v)
		}

		start := min(input.Offset, len(filtered))
		end := min(start+limit, len(filtered))

		return JSONResult(map[string]any{
			"total":   len(filtered),
			"offset":  start,
			"hasMore": st.HasMore,
			"jobs":    filtered[start:end],
		}), nil, nil
	}
}

// ClearJobsInput defines the input schema for the clear_jobs tool.
type ClearJobsInput struct{}

// NewClearJobsHandler creates the clear_jobs tool handler.
func NewClearJobsHandler(deps *Dependencies) mcp.ToolHandlerFor[ClearJobsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ClearJobsInput) (
		*mcp.CallToolResult, any, error,
	) {
		dropped := len(deps.Search.Jobs())
		deps.Search.Clear()
		deps.Logger.Info("tool completed", "tool", "clear_jobs", "dropped", dropped)
		return TextResult("Cleared search results"), nil, nil
	}
}
