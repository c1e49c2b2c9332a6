package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterAll registers all tools with the MCP server.
// This is called from main after server creation but before Run().
func RegisterAll(server *mcp.Server, deps *Dependencies) {
	// Search lifecycle
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_jobs",
		Description: "Search job listings. Starts a new search unless append is set",
	}, NewSearchJobsHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "load_more",
		Description: "Fetch the next page of the current search and append it",
	}, NewLoadMoreHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_jobs",
		Description: "List loaded listings with offset/limit paging and favorite/fresh filters",
	}, NewListJobsHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "clear_jobs",
		Description: "Drop all loaded results",
	}, NewClearJobsHandler(deps))

	// Favorites
	mcp.AddTool(server, &mcp.Tool{
		Name:        "toggle_favorite",
		Description: "Add a listing to favorites, or remove it if already there",
	}, NewToggleFavoriteHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_favorites",
		Description: "List favorited listings in the order they were added",
	}, NewListFavoritesHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "clear_favorites",
		Description: "Remove every favorite",
	}, NewClearFavoritesHandler(deps))

	// Export
	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_jobs",
		Description: "Export results or favorites as CSV, JSON or a text report",
	}, NewExportJobsHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "job_report",
		Description: "Summary counts by company, location, work mode and role",
	}, NewJobReportHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "suggest_cities",
		Description: "Suggest up to five city labels matching a partial name",
	}, NewSuggestCitiesHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "stats",
		Description: "Runtime statistics and liveness check",
	}, NewStatsHandler(deps))
}
