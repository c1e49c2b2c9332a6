// Package service provides the search controller and favorites store.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/raphaelgruber/jobfinder-go/internal/metrics"
	"github.com/raphaelgruber/jobfinder-go/internal/models"
	"github.com/raphaelgruber/jobfinder-go/internal/source"
)

// fallbackErrorMessage is shown when a failed fetch carries no message.
const fallbackErrorMessage = "Erro ao buscar vagas"

// Outcome reports what a controller call did.
type Outcome int

const (
	OutcomeFetched Outcome = iota
	OutcomeFailed
	OutcomeDiscarded // fetch finished after Clear; result dropped
	OutcomeSkippedInFlight
	OutcomeSkippedUnchanged
	OutcomeSkippedExhausted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFetched:
		return "fetched"
	case OutcomeFailed:
		return "failed"
	case OutcomeDiscarded:
		return "discarded"
	case OutcomeSkippedInFlight:
		return "skipped_in_flight"
	case OutcomeSkippedUnchanged:
		return "skipped_unchanged"
	case OutcomeSkippedExhausted:
		return "skipped_exhausted"
	default:
		return "unknown"
	}
}

// Skipped reports whether the call returned without touching the source.
func (o Outcome) Skipped() bool {
	return o >= OutcomeSkippedInFlight
}

// SearchState is a snapshot of the controller.
type SearchState struct {
	Jobs        []models.Job        `json:"jobs"`
	Params      models.SearchParams `json:"params"`
	Page        int                 `json:"page"`     // last page applied, 0 before the first
	NextPage    int                 `json:"nextPage"` // page LoadMore will request
	TotalCount  int                 `json:"totalCount"`
	HasMore     bool                `json:"hasMore"`
	Loading     bool                `json:"loading"`
	Err         string              `json:"error,omitempty"`
	Fingerprint string              `json:"fingerprint,omitempty"`
}

// SearchController accumulates pages of listings for one search at a time.
// At most one source fetch runs per controller; overlapping calls are
// dropped, not queued.
type SearchController struct {
	src             source.Source
	pageSize        int
	defaultLocation string
	metrics         *metrics.Collector
	logger          *slog.Logger

	mu          sync.Mutex
	jobs        []models.Job
	params      models.SearchParams
	page        int
	nextPage    int
	totalCount  int
	hasMore     bool
	loading     bool
	lastErr     string
	fingerprint string
	generation  uint64
}

// SearchOption configures a SearchController.
type SearchOption func(*SearchController)

// WithPageSize sets the page size requested from the source.
func WithPageSize(n int) SearchOption {
	return func(c *SearchController) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithDefaultLocation sets the location used when a search names none.
func WithDefaultLocation(loc string) SearchOption {
	return func(c *SearchController) {
		if loc != "" {
			c.defaultLocation = loc
		}
	}
}

// WithSearchMetrics records fetch timings.
func WithSearchMetrics(m *metrics.Collector) SearchOption {
	return func(c *SearchController) { c.metrics = m }
}

// WithSearchLogger sets the logger.
func WithSearchLogger(logger *slog.Logger) SearchOption {
	return func(c *SearchController) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewSearchController creates a controller over src.
func NewSearchController(src source.Source, opts ...SearchOption) *SearchController {
	c := &SearchController{
		src:             src,
		pageSize:        source.DefaultPageSize,
		defaultLocation: models.DefaultLocation,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.resetLocked()
	return c
}

// PageSize returns the configured page size.
func (c *SearchController) PageSize() int {
	return c.pageSize
}

// Search runs params. Without reset, an unchanged query with results already
// loaded is a no-op and a changed query appends the next page.
func (c *SearchController) Search(ctx context.Context, params models.SearchParams, reset bool) Outcome {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		c.logger.Debug("search dropped, fetch in flight", "keywords", params.Keywords)
		return OutcomeSkippedInFlight
	}
	if !reset && params.Fingerprint() == c.fingerprint && len(c.jobs) > 0 {
		c.mu.Unlock()
		return OutcomeSkippedUnchanged
	}

	page := c.nextPage
	if reset {
		page = 1
	}
	return c.fetchLocked(ctx, params, page, reset)
}

// LoadMore appends the next page. It is the continuation signal for
// infinite scrolling and is safe to call repeatedly.
func (c *SearchController) LoadMore(ctx context.Context, params models.SearchParams) Outcome {
	c.mu.Lock()
	if !c.hasMore {
		c.mu.Unlock()
		return OutcomeSkippedExhausted
	}
	if c.loading {
		next := c.nextPage
		c.mu.Unlock()
		c.logger.Debug("load more dropped, fetch in flight", "next_page", next)
		return OutcomeSkippedInFlight
	}
	return c.fetchLocked(ctx, params, c.nextPage, false)
}

// ResetAndSearch clears all state and fetches the first page of params.
// While a fetch is in flight it does nothing.
func (c *SearchController) ResetAndSearch(ctx context.Context, params models.SearchParams) Outcome {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return OutcomeSkippedInFlight
	}
	c.resetLocked()
	return c.fetchLocked(ctx, params, 1, true)
}

// Clear resets all state without fetching. A fetch already in flight keeps
// the single-flight slot but its result is discarded.
func (c *SearchController) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetLocked()
	c.generation++
}

// State returns a snapshot of the controller.
func (c *SearchController) State() SearchState {
	c.mu.Lock()
	defer c.mu.Unlock()

	jobs := make([]models.Job, len(c.jobs))
	copy(jobs, c.jobs)

	return SearchState{
		Jobs:        jobs,
		Params:      c.params,
		Page:        c.page,
		NextPage:    c.nextPage,
		TotalCount:  c.totalCount,
		HasMore:     c.hasMore,
		Loading:     c.loading,
		Err:         c.lastErr,
		Fingerprint: c.fingerprint,
	}
}

// Jobs returns a copy of the accumulated listings.
func (c *SearchController) Jobs() []models.Job {
	return c.State().Jobs
}

// resetLocked restores the initial state. The loading flag is left alone.
// Caller must hold c.mu.
func (c *SearchController) resetLocked() {
	c.jobs = nil
	c.params = models.SearchParams{}
	c.page = 0
	c.nextPage = 1
	c.totalCount = 0
	c.hasMore = true
	c.lastErr = ""
	c.fingerprint = ""
}

// fetchLocked claims the single-flight slot, fetches page outside the lock
// and applies the result. Caller must hold c.mu; it is released on return.
func (c *SearchController) fetchLocked(ctx context.Context, params models.SearchParams, page int, replace bool) Outcome {
	c.loading = true
	c.lastErr = ""
	gen := c.generation
	c.mu.Unlock()

	reqID := uuid.New().String()[:8]
	req := source.Request{
		Keywords: params.EffectiveKeywords(),
		Location: params.EffectiveLocation(c.defaultLocation),
		Page:     page,
		PageSize: c.pageSize,
	}

	start := time.Now()
	res, err := c.src.Fetch(ctx, req)
	elapsed := time.Since(start)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false

	if err != nil {
		c.metrics.RecordFailure(metrics.OpFetch, elapsed)
	} else {
		c.metrics.RecordTiming(metrics.OpFetch, elapsed)
	}

	if gen != c.generation {
		c.logger.Info("discarding fetch result after clear", "request_id", reqID, "page", page)
		return OutcomeDiscarded
	}

	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = fallbackErrorMessage
		}
		c.lastErr = msg
		c.hasMore = false
		c.logger.Warn("search failed",
			"request_id", reqID,
			"source", c.src.Name(),
			"keywords", req.Keywords,
			"page", page,
			"error", err,
		)
		return OutcomeFailed
	}

	jobs := enrich(res.Jobs, params.Keywords)
	if replace {
		c.jobs = jobs
	} else {
		c.jobs = append(c.jobs, jobs...)
	}
	c.params = params
	c.totalCount = res.TotalCount
	c.hasMore = res.HasMore && len(res.Jobs) > 0
	c.fingerprint = params.Fingerprint()
	c.page = page
	c.nextPage = page + 1

	c.logger.Info("search page fetched",
		"request_id", reqID,
		"source", c.src.Name(),
		"keywords", req.Keywords,
		"location", req.Location,
		"page", page,
		"count", len(jobs),
		"accumulated", len(c.jobs),
		"has_more", c.hasMore,
		"duration_ms", elapsed.Milliseconds(),
	)
	return OutcomeFetched
}

// enrich stamps role and derived id on a fresh copy of jobs.
func enrich(in []models.Job, role string) []models.Job {
	out := make([]models.Job, len(in))
	for i, job := range in {
		job.Role = role
		job.ID = models.DeriveID(job.Company, job.Title, job.PublishedAt)
		out[i] = job
	}
	return out
}
