package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/jobfinder-go/internal/source"
)

// SuggestCitiesInput defines the input schema for the suggest_cities tool.
type SuggestCitiesInput struct {
	Query string `json:"query" jsonschema:"Partial city or state name, at least 2 characters"`
}

// NewSuggestCitiesHandler creates the suggest_cities tool handler.
func NewSuggestCitiesHandler(deps *Dependencies) mcp.ToolHandlerFor[SuggestCitiesInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SuggestCitiesInput) (
		*mcp.CallToolResult, any, error,
	) {
		suggestions := source.CitySuggestions(input.Query)
		if suggestions == nil {
			suggestions = []string{}
		}
		return JSONResult(map[string]any{"suggestions": suggestions}), nil, nil
	}
}
