package tools

import (
	"time"

	"github.com/raphaelgruber/jobfinder-go/internal/models"
	"github.com/raphaelgruber/jobfinder-go/internal/service"
)

// JobView is a listing as returned to the agent.
type JobView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	PublishedAt string `json:"publishedAt,omitempty"`
	URL         string `json:"url"`
	Type        string `json:"type"`
	Salary      string `json:"salary,omitempty"`
	Snippet     string `json:"snippet,omitempty"`
	Favorite    bool   `json:"favorite"`
	Fresh       bool   `json:"fresh"`
}

// PageView summarises controller state after a search call.
type PageView struct {
	Outcome    string    `json:"outcome"`
	Filters    string    `json:"filters,omitempty"`
	Page       int       `json:"page"`
	Loaded     int       `json:"loaded"`
	TotalCount int       `json:"totalCount"`
	HasMore    bool      `json:"hasMore"`
	Error      string    `json:"error,omitempty"`
	Jobs       []JobView `json:"jobs"`
}

func toViews(deps *Dependencies, jobs []models.Job) []JobView {
	now := deps.now()
	out := make([]JobView, 0, len(jobs))
	for _, j := range jobs {
		v := JobView{
			ID:       j.ID,
			Title:    j.Title,
			Company:  j.Company,
			Location: j.Location,
			URL:      j.URL,
			Type:     j.Type,
			Salary:   j.Salary,
			Snippet:  j.Snippet,
			Fresh:    models.IsFresh(j, now),
		}
		if j.PublishedAt != nil {
			v.PublishedAt = j.PublishedAt.Format(time.RFC3339)
		}
		if deps.Favorites != nil {
			v.Favorite = deps.Favorites.IsFavorite(j)
		}
		out = append(out, v)
	}
	return out
}

// pageView renders state, listing only the jobs from index from onwards.
func pageView(deps *Dependencies, outcome service.Outcome, st service.SearchState, from int) PageView {
	if from > len(st.Jobs) || from < 0 {
		from = len(st.Jobs)
	}
	return PageView{
		Outcome:    outcome.String(),
		Filters:    st.Params.AppliedFilters(),
		Page:       st.Page,
		Loaded:     len(st.Jobs),
		TotalCount: st.TotalCount,
		HasMore:    st.HasMore,
		Error:      st.Err,
		Jobs:       toViews(deps, st.Jobs[from:]),
	}
}
