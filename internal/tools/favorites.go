package tools

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/jobfinder-go/internal/models"
)

// ToggleFavoriteInput defines the input schema for the toggle_favorite tool.
type ToggleFavoriteInput struct {
	URL string `json:"url,omitempty" jsonschema:"Listing URL"`
	ID  string `json:"id,omitempty" jsonschema:"Listing ID, used when url is empty"`
}

// NewToggleFavoriteHandler creates the toggle_favorite tool handler.
// The listing is looked up in the current results first, then in favorites.
func NewToggleFavoriteHandler(deps *Dependencies) mcp.ToolHandlerFor[ToggleFavoriteInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ToggleFavoriteInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.URL == "" && input.ID == "" {
			return ErrorResult("url or id is required", "Take them from search_jobs or list_jobs output"), nil, nil
		}

		probe := models.Job{ID: input.ID, URL: input.URL}
		job, ok := lookupJob(deps, probe)
		if !ok {
			return ErrorResult("Listing not found", "Only loaded results or existing favorites can be toggled"), nil, nil
		}

		added := deps.Favorites.Toggle(ctx, job)
		deps.Logger.Info("tool completed",
			"tool", "toggle_favorite",
			"url", job.URL,
			"favorite", added)

		return JSONResult(map[string]any{
			"favorite": added,
			"count":    deps.Favorites.Count(),
			"job":      toViews(deps, []models.Job{job})[0],
		}), nil, nil
	}
}

func lookupJob(deps *Dependencies, probe models.Job) (models.Job, bool) {
	for _, j := range deps.Search.Jobs() {
		if j.SameListing(probe) {
			return j, true
		}
	}
	for _, j := range deps.Favorites.Jobs() {
		if j.SameListing(probe) {
			return j, true
		}
	}
	return models.Job{}, false
}

// ListFavoritesInput defines the input schema for the list_favorites tool.
type ListFavoritesInput struct{}

type favoriteView struct {
	JobView
	FavoritedAt string `json:"favoritedAt"`
}

// NewListFavoritesHandler creates the list_favorites tool handler.
func NewListFavoritesHandler(deps *Dependencies) mcp.ToolHandlerFor[ListFavoritesInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListFavoritesInput) (
		*mcp.CallToolResult, any, error,
	) {
		favs := deps.Favorites.List()
		jobs := make([]models.Job, len(favs))
		for i, f := range favs {
			jobs[i] = f.Job
		}
		views := toViews(deps, jobs)

		out := make([]favoriteView, len(favs))
		for i, f := range favs {
			out[i] = favoriteView{JobView: views[i], FavoritedAt: f.FavoritedAt.Format(time.RFC3339)}
		}

		return JSONResult(map[string]any{
			"count":     len(out),
			"favorites": out,
		}), nil, nil
	}
}

// ClearFavoritesInput defines the input schema for the clear_favorites tool.
type ClearFavoritesInput struct {
	Confirm bool `json:"confirm" jsonschema:"Must be true, favorites cannot be recovered"`
}

// NewClearFavoritesHandler creates the clear_favorites tool handler.
func NewClearFavoritesHandler(deps *Dependencies) mcp.ToolHandlerFor[ClearFavoritesInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ClearFavoritesInput) (
		*mcp.CallToolResult, any, error,
	) {
		if !input.Confirm {
			return ErrorResult("Refusing to clear favorites", "Set confirm to true"), nil, nil
		}
		n := deps.Favorites.Count()
		deps.Favorites.Clear(ctx)
		deps.Logger.Info("tool completed", "tool", "clear_favorites", "removed", n)
		return TextResult("Removed all favorites"), nil, nil
	}
}
