package source

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/raphaelgruber/jobfinder-go/internal/models"
)

// Mock defaults mirror the demo catalogue size.
const (
	DefaultTotalCount = 500
	DefaultMaxPages   = 25
	DefaultPageSize   = 20
	DefaultMinLatency = 600 * time.Millisecond
	DefaultMaxLatency = 1000 * time.Millisecond

	salaryProbability = 0.7
	maxAgeDays        = 30
)

var workModes = []string{models.ModeRemote, models.ModeOnSite, models.ModeHybrid}

// Mock is a deterministic demo source. Record content depends only on the
// listing index; publish dates, salaries and latency come from the injected
// random generator and clock.
type Mock struct {
	mu         sync.Mutex
	rng        *rand.Rand
	now        func() time.Time
	minLatency time.Duration
	maxLatency time.Duration
	maxPages   int
	totalCount int
	logger     *slog.Logger
}

// MockOption configures a Mock.
type MockOption func(*Mock)

// WithSeed seeds the random generator.
func WithSeed(seed uint64) MockOption {
	return func(m *Mock) { m.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithRand sets the random generator.
func WithRand(r *rand.Rand) MockOption {
	return func(m *Mock) { m.rng = r }
}

// WithClock sets the time source used for publish dates.
func WithClock(now func() time.Time) MockOption {
	return func(m *Mock) { m.now = now }
}

// WithLatency sets the simulated latency range. Zero disables it.
func WithLatency(lo, hi time.Duration) MockOption {
	return func(m *Mock) {
		if hi < lo {
			hi = lo
		}
		m.minLatency, m.maxLatency = lo, hi
	}
}

// WithMaxPages sets the page after which HasMore turns false.
func WithMaxPages(n int) MockOption {
	return func(m *Mock) {
		if n > 0 {
			m.maxPages = n
		}
	}
}

// WithTotalCount sets the reported total result count.
func WithTotalCount(n int) MockOption {
	return func(m *Mock) {
		if n >= 0 {
			m.totalCount = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) MockOption {
	return func(m *Mock) { m.logger = logger }
}

// NewMock creates a demo source.
func NewMock(opts ...MockOption) *Mock {
	m := &Mock{
		now:        time.Now,
		minLatency: DefaultMinLatency,
		maxLatency: DefaultMaxLatency,
		maxPages:   DefaultMaxPages,
		totalCount: DefaultTotalCount,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		seed := uint64(time.Now().UnixNano())
		m.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return m
}

// Name returns the source name.
func (m *Mock) Name() string {
	return "mock"
}

// Fetch returns one page of generated listings after the simulated latency.
// The only failure is context cancellation.
func (m *Mock) Fetch(ctx context.Context, req Request) (Result, error) {
	if req.Page < 1 {
		return Result{}, fmt.Errorf("invalid page %d", req.Page)
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	if err := m.wait(ctx); err != nil {
		return Result{}, fmt.Errorf("fetch page %d: %w", req.Page, err)
	}

	start := (req.Page - 1) * pageSize
	jobs := make([]models.Job, 0, pageSize)
	for i := 0; i < pageSize; i++ {
		jobs = append(jobs, m.generate(start+i, req.Keywords, req.Location))
	}

	m.logger.Debug("mock page generated",
		"keywords", req.Keywords,
		"location", req.Location,
		"page", req.Page,
		"count", len(jobs),
	)

	return Result{
		Jobs:       jobs,
		TotalCount: m.totalCount,
		Page:       req.Page,
		PageSize:   pageSize,
		HasMore:    req.Page < m.maxPages,
	}, nil
}

// wait sleeps for a random latency in [min, max) or until ctx is done.
func (m *Mock) wait(ctx context.Context) error {
	if m.maxLatency <= 0 {
		return ctx.Err()
	}

	delay := m.minLatency
	if span := m.maxLatency - m.minLatency; span > 0 {
		delay += time.Duration(m.float() * float64(span))
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (m *Mock) float() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rng.Float64()
}

// generate builds the listing at a global index.
func (m *Mock) generate(index int, keywords, location string) models.Job {
	company := companies[index%len(companies)]
	city := cities[index%len(cities)]
	mode := workModes[index%len(workModes)]
	level := levels[index%len(levels)]

	m.mu.Lock()
	daysAgo := m.rng.IntN(maxAgeDays)
	hasSalary := m.rng.Float64() < salaryProbability
	salaryFactor := m.rng.Float64()
	m.mu.Unlock()

	published := m.now().Add(-time.Duration(daysAgo) * 24 * time.Hour)

	var salary string
	if hasSalary {
		salary = fmt.Sprintf("R$ %.0f", level.Base+salaryFactor*level.Base*0.5)
	}

	loc := location
	if location == models.DefaultLocation {
		loc = city.Label()
	}

	return models.Job{
		Title:       keywords + " - " + level.Name,
		Company:     company.Name,
		Location:    loc,
		PublishedAt: &published,
		URL:         fmt.Sprintf("https://exemplo.com/vaga/%s-%d", models.Slugify(company.Name), index),
		Type:        mode,
		Salary:      salary,
		Snippet:     describe(index, keywords, company, level.Name) + " " + mode + " disponível.",
		Sector:      company.Sector,
		CompanySize: company.Size,
		Seniority:   level.Name,
	}
}

func describe(index int, keywords string, c Company, level string) string {
	kw := strings.ToLower(keywords)
	switch index % 4 {
	case 0:
		return fmt.Sprintf("Oportunidade para %s em %s. Trabalhe com tecnologias modernas e uma equipe incrível.", kw, c.Name)
	case 1:
		return fmt.Sprintf("%s busca %s %s para integrar nosso time de produto.", c.Name, kw, strings.ToLower(level))
	case 2:
		return fmt.Sprintf("Vaga de %s na %s. Ambiente colaborativo e oportunidades de crescimento.", kw, c.Name)
	default:
		return fmt.Sprintf("%s está contratando %s para projetos inovadores no setor %s.", c.Name, kw, strings.ToLower(c.Sector))
	}
}
