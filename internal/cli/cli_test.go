package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/raphaelgruber/jobfinder-go/internal/app"
	"github.com/raphaelgruber/jobfinder-go/internal/config"
	"github.com/raphaelgruber/jobfinder-go/internal/db"
	"github.com/raphaelgruber/jobfinder-go/internal/models"
	"github.com/raphaelgruber/jobfinder-go/internal/service"
	"github.com/raphaelgruber/jobfinder-go/internal/source"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// setupApp points the package globals at a fresh, fast application.
func setupApp(t *testing.T) {
	t.Helper()

	c := config.FromEnv()
	c.StoreBackend = db.BackendFile
	c.DataDir = t.TempDir()
	c.ExportDir = t.TempDir()
	c.LatencyMin, c.LatencyMax = 0, 0
	c.Seed = 3
	c.PageSize = 10
	c.MaxPages = 4
	cfg = c

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	application = app.New(context.Background(), c, logger)

	prevNow := timeNow
	timeNow = func() time.Time { return testNow }

	t.Cleanup(func() {
		_ = application.Close()
		application = nil
		timeNow = prevNow
	})
}

func testCommand() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetContext(context.Background())
	return cmd, &buf
}

func TestQueryFlagsRejectUnknownMode(t *testing.T) {
	q := queryFlags{mode: "Lunar"}
	_, err := q.params([]string{"Redator"})
	assert.ErrorContains(t, err, "unknown mode")

	q = queryFlags{location: " Recife ", mode: models.ModeRemote}
	p, err := q.params([]string{"Analista", "de", "Marketing"})
	require.NoError(t, err)
	assert.Equal(t, models.SearchParams{Keywords: "Analista de Marketing", Location: "Recife", Mode: models.ModeRemote}, p)
}

func TestLoadPagesStopsWhenExhausted(t *testing.T) {
	setupApp(t)

	err := loadPages(context.Background(), application.Search, models.SearchParams{Keywords: "Redator"}, 10)
	require.NoError(t, err)

	st := application.Search.State()
	assert.Len(t, st.Jobs, 40)
	assert.False(t, st.HasMore)

	assert.Error(t, loadPages(context.Background(), application.Search, models.SearchParams{}, 0))
}

func TestSearchPrintsTable(t *testing.T) {
	setupApp(t)
	searchQuery = queryFlags{pages: 2, location: "Recife"}
	searchJSON = false

	cmd, out := testCommand()
	require.NoError(t, runSearch(cmd, []string{"Redator"}))

	text := out.String()
	assert.Contains(t, text, "Title")
	assert.Contains(t, text, "20 of 500 listings loaded (page 2)")
	assert.Contains(t, text, "cidade:Recife")
}

func TestSearchJSON(t *testing.T) {
	setupApp(t)
	searchQuery = queryFlags{pages: 1}
	searchJSON = true
	t.Cleanup(func() { searchJSON = false })

	cmd, out := testCommand()
	require.NoError(t, runSearch(cmd, []string{"Editor"}))

	var jobs []models.Job
	require.NoError(t, json.Unmarshal(out.Bytes(), &jobs))
	require.Len(t, jobs, 10)
	assert.Equal(t, "Editor", jobs[0].Role)
	assert.NotEmpty(t, jobs[0].ID)
}

func TestFavoritesAddRemoveClear(t *testing.T) {
	setupApp(t)
	favoritesQuery = queryFlags{}

	cmd, out := testCommand()
	require.NoError(t, runFavoritesAdd(cmd, []string{"12", "Redator"}))
	assert.Contains(t, out.String(), "Added")
	require.Equal(t, 1, application.Favorites.Count())

	fav := application.Favorites.List()[0]
	assert.Equal(t, application.Search.Jobs()[11].URL, fav.URL)

	out.Reset()
	require.NoError(t, runFavoritesAdd(cmd, []string{"12", "Redator"}))
	assert.Contains(t, out.String(), "Already a favorite")
	assert.Equal(t, 1, application.Favorites.Count())

	out.Reset()
	require.NoError(t, runFavoritesList(cmd, nil))
	assert.Contains(t, out.String(), "Favorites (1)")

	require.NoError(t, runFavoritesRemove(cmd, []string{fav.URL}))
	assert.Zero(t, application.Favorites.Count())
	assert.Error(t, runFavoritesRemove(cmd, []string{fav.URL}))

	require.NoError(t, runFavoritesAdd(cmd, []string{"1", "Redator"}))
	favoritesForce = false
	assert.Error(t, runFavoritesClear(cmd, nil))
	favoritesForce = true
	t.Cleanup(func() { favoritesForce = false })
	require.NoError(t, runFavoritesClear(cmd, nil))
	assert.Zero(t, application.Favorites.Count())
}

func TestFavoritesAddBeyondResults(t *testing.T) {
	setupApp(t)
	favoritesQuery = queryFlags{}

	cmd, _ := testCommand()
	assert.ErrorContains(t, runFavoritesAdd(cmd, []string{"41"}), "only 40 listings")
	assert.ErrorContains(t, runFavoritesAdd(cmd, []string{"zero"}), "invalid position")
}

func TestExportWritesFile(t *testing.T) {
	setupApp(t)
	exportQuery = queryFlags{pages: 2}
	exportOut = ""
	exportFavorites = false

	cmd, out := testCommand()
	require.NoError(t, runExport(cmd, []string{"csv", "Redator"}))
	assert.Contains(t, out.String(), "Exported 20 listings")

	data, err := os.ReadFile(filepath.Join(cfg.ExportDir, "vagas-br-2024-06-01.csv"))
	require.NoError(t, err)
	assert.Len(t, strings.Split(string(data), "\n"), 21)

	assert.Equal(t, int64(1), application.Metrics.Snapshot().Operations["export"].Count)
}

func TestExportFavoritesToStdout(t *testing.T) {
	setupApp(t)
	exportOut = "-"
	exportFavorites = true
	t.Cleanup(func() { exportOut, exportFavorites = "", false })

	cmd, out := testCommand()
	assert.ErrorContains(t, runExport(cmd, []string{"report"}), "nothing to export")

	require.NoError(t, loadPages(context.Background(), application.Search, models.SearchParams{Keywords: "Redator"}, 1))
	application.Favorites.Toggle(context.Background(), application.Search.Jobs()[0])

	require.NoError(t, runExport(cmd, []string{"report"}))
	assert.Contains(t, out.String(), "Total")

	assert.Error(t, runExport(cmd, []string{"xlsx"}))
}

func TestStatsCommand(t *testing.T) {
	setupApp(t)
	statsQuery = queryFlags{pages: 1}

	cmd, out := testCommand()
	require.NoError(t, runStats(cmd, []string{"Redator"}))

	text := out.String()
	assert.Contains(t, text, "By region")
	assert.Contains(t, text, "source_fetch")
}

func TestStandaloneCommands(t *testing.T) {
	cmd, out := testCommand()
	require.NoError(t, citiesCmd.RunE(cmd, []string{"sa"}))
	assert.NotEmpty(t, strings.TrimSpace(out.String()))

	out.Reset()
	require.NoError(t, rolesCmd.RunE(cmd, nil))
	assert.Contains(t, out.String(), " 1. "+models.Roles[0])
}

func TestBrowseModelLoadsMoreNearEnd(t *testing.T) {
	setupApp(t)
	ctx := context.Background()
	m := newBrowseModel(ctx, application.Search, application.Favorites, models.SearchParams{Keywords: "Redator"})

	msg := m.resetCmd()()
	model, _ := m.Update(msg)
	m = model.(browseModel)
	require.Len(t, m.state.Jobs, 10)

	// far from the end: no fetch
	model, cmd := m.handleKey("down")
	m = model.(browseModel)
	assert.Nil(t, cmd)

	for m.cursor < len(m.state.Jobs)-loadMoreThreshold-1 {
		model, _ = m.handleKey("down")
		m = model.(browseModel)
	}
	model, cmd = m.handleKey("down")
	m = model.(browseModel)
	require.NotNil(t, cmd, "nearing the end requests the next page")

	model, _ = m.Update(cmd())
	m = model.(browseModel)
	assert.Len(t, m.state.Jobs, 20)
	assert.Equal(t, 2, m.state.Page)
}

func TestBrowseModelToggleFavoriteAndQuit(t *testing.T) {
	setupApp(t)
	ctx := context.Background()
	m := newBrowseModel(ctx, application.Search, application.Favorites, models.SearchParams{})

	model, _ := m.Update(m.resetCmd()())
	m = model.(browseModel)

	model, _ = m.handleKey("f")
	m = model.(browseModel)
	assert.Equal(t, 1, application.Favorites.Count())
	assert.Contains(t, m.renderContent(), favoriteMark)

	model, _ = m.handleKey("f")
	m = model.(browseModel)
	assert.Zero(t, application.Favorites.Count())

	model, cmd := m.handleKey("q")
	m = model.(browseModel)
	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
}

func TestBrowseModelFailedFetchShowsError(t *testing.T) {
	setupApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := newBrowseModel(ctx, application.Search, application.Favorites, models.SearchParams{Keywords: "Redator"})
	model, _ := m.Update(m.resetCmd()())
	m = model.(browseModel)

	assert.NotEmpty(t, m.status)
	assert.Contains(t, m.renderContent(), "✗")
}

// gatedSource holds its second fetch until release is closed.
type gatedSource struct {
	inner   source.Source
	calls   int
	started chan struct{}
	release chan struct{}
}

func (g *gatedSource) Name() string { return "gated" }

func (g *gatedSource) Fetch(ctx context.Context, req source.Request) (source.Result, error) {
	g.calls++
	if g.calls == 2 {
		g.started <- struct{}{}
		<-g.release
	}
	return g.inner.Fetch(ctx, req)
}

func TestBrowseReloadWhileFetchRunning(t *testing.T) {
	setupApp(t)
	ctx := context.Background()

	gate := &gatedSource{
		inner:   application.Source,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	search := service.NewSearchController(gate, service.WithPageSize(10))
	m := newBrowseModel(ctx, search, application.Favorites, models.SearchParams{Keywords: "Redator"})

	model, _ := m.Update(m.resetCmd()())
	m = model.(browseModel)
	for i := 0; i < 2; i++ {
		model, _ = m.handleKey("down")
		m = model.(browseModel)
	}
	require.Equal(t, 2, m.cursor)

	pending := make(chan service.Outcome, 1)
	go func() { pending <- search.LoadMore(ctx, m.params) }()
	<-gate.started

	model, cmd := m.handleKey("r")
	m = model.(browseModel)
	require.NotNil(t, cmd)
	model, _ = m.Update(cmd())
	m = model.(browseModel)

	assert.Contains(t, m.status, "ignored")
	assert.Equal(t, 2, m.cursor, "cursor stays put when the reload is dropped")

	close(gate.release)
	assert.Equal(t, service.OutcomeFetched, <-pending)

	model, cmd = m.handleKey("r")
	m = model.(browseModel)
	model, _ = m.Update(cmd())
	m = model.(browseModel)

	assert.Empty(t, m.status)
	assert.Zero(t, m.cursor)
	assert.Len(t, m.state.Jobs, 10)
}
