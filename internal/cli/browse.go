package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/raphaelgruber/jobfinder-go/internal/models"
	"github.com/raphaelgruber/jobfinder-go/internal/service"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	// rows from the end of the list at which the next page is requested
	loadMoreThreshold = 3
	defaultListHeight = 15
)

var browseQuery queryFlags

var browseCmd = &cobra.Command{
	Use:   "browse [keywords]",
	Short: "Browse listings interactively",
	Long: `Open an interactive list of listings. Scrolling near the end loads the
next page.

Keys:
  ↑/k ↓/j   move
  f         toggle favorite
  r         reload from the first page
  q         quit

Examples:
  jobfinder browse
  jobfinder browse Redator --location "São Paulo" --mode Híbrido`,
	RunE: runBrowse,
}

func init() {
	browseQuery.register(browseCmd, false)
}

// Theme holds the color scheme for the browser.
type Theme struct {
	Title    lipgloss.Color
	Cursor   lipgloss.Color
	Favorite lipgloss.Color
	Fresh    lipgloss.Color
	Error    lipgloss.Color
	Hint     lipgloss.Color
}

var defaultTheme = Theme{
	Title:    lipgloss.Color("#5FAFD7"), // light blue
	Cursor:   lipgloss.Color("#00D787"), // green
	Favorite: lipgloss.Color("#FFD700"), // gold
	Fresh:    lipgloss.Color("#AF87FF"), // lavender
	Error:    lipgloss.Color("#FF005F"), // red
	Hint:     lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Title).Bold(true)
}

func (t Theme) cursorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Cursor).Bold(true)
}

func (t Theme) favoriteStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Favorite)
}

func (t Theme) freshStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Fresh).Italic(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// fetchDoneMsg carries the outcome of a controller call.
type fetchDoneMsg struct {
	outcome service.Outcome
	reset   bool
}

// browseModel is the bubbletea model for the listing browser.
type browseModel struct {
	ctx      context.Context
	search   *service.SearchController
	favs     *service.FavoritesService
	params   models.SearchParams
	state    service.SearchState
	cursor   int
	top      int
	height   int
	progress progress.Model
	theme    Theme
	status   string
	quitting bool
}

func newBrowseModel(ctx context.Context, search *service.SearchController, favs *service.FavoritesService, params models.SearchParams) browseModel {
	return browseModel{
		ctx:    ctx,
		search: search,
		favs:   favs,
		params: params,
		height: defaultListHeight,
		progress: progress.New(
			progress.WithDefaultBlend(),
			progress.WithWidth(40),
		),
		theme: defaultTheme,
	}
}

// Init starts the first search.
func (m browseModel) Init() tea.Cmd {
	return tea.Batch(m.resetCmd(), m.progress.Init())
}

// Update handles messages and returns the updated model.
func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg.String())

	case tea.WindowSizeMsg:
		// header, footer and hint lines
		m.height = max(msg.Height-6, 3)
		m.clampViewport()
		return m, nil

	case fetchDoneMsg:
		m.state = m.search.State()
		switch {
		case msg.outcome == service.OutcomeFailed:
			m.status = m.state.Err
		case msg.outcome == service.OutcomeFetched:
			m.status = ""
			if msg.reset {
				m.cursor, m.top = 0, 0
			}
		case msg.reset && msg.outcome == service.OutcomeSkippedInFlight:
			m.status = "reload ignored, a fetch is still running"
		case msg.reset:
			m.status = ""
		}
		m.clampViewport()
		return m, nil

	case progress.FrameMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m browseModel) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		m.clampViewport()
		return m, nil

	case "down", "j":
		if m.cursor < len(m.state.Jobs)-1 {
			m.cursor++
		}
		m.clampViewport()
		return m, m.maybeLoadMore()

	case "f":
		if m.cursor < len(m.state.Jobs) {
			job := m.state.Jobs[m.cursor]
			if m.favs.Toggle(m.ctx, job) {
				m.status = "★ " + job.Title
			} else {
				m.status = "removed " + job.Title
			}
		}
		return m, nil

	case "r":
		m.status = "reloading..."
		return m, m.resetCmd()
	}
	return m, nil
}

// maybeLoadMore asks for the next page once the cursor nears the end.
// The controller drops the request when a fetch is already running.
func (m browseModel) maybeLoadMore() tea.Cmd {
	if !m.state.HasMore || m.cursor < len(m.state.Jobs)-loadMoreThreshold {
		return nil
	}
	search, ctx, params := m.search, m.ctx, m.params
	return func() tea.Msg {
		return fetchDoneMsg{outcome: search.LoadMore(ctx, params)}
	}
}

func (m browseModel) resetCmd() tea.Cmd {
	search, ctx, params := m.search, m.ctx, m.params
	return func() tea.Msg {
		return fetchDoneMsg{outcome: search.ResetAndSearch(ctx, params), reset: true}
	}
}

func (m *browseModel) clampViewport() {
	if n := len(m.state.Jobs); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	if m.cursor < m.top {
		m.top = m.cursor
	}
	if m.cursor >= m.top+m.height {
		m.top = m.cursor - m.height + 1
	}
}

// View renders the browser.
func (m browseModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m browseModel) renderContent() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := "Vagas"
	if filters := m.params.AppliedFilters(); filters != "" {
		title += " · " + filters
	}
	b.WriteString(m.theme.titleStyle().Render(title) + "\n\n")

	jobs := m.state.Jobs
	if len(jobs) == 0 {
		if m.search.State().Loading {
			b.WriteString("Loading listings...\n")
		} else {
			b.WriteString("No listings.\n")
		}
	}

	now := timeNow()
	end := min(m.top+m.height, len(jobs))
	for i := m.top; i < end; i++ {
		b.WriteString(m.renderRow(i, jobs[i], now) + "\n")
	}

	var pct float64
	if m.state.TotalCount > 0 {
		pct = float64(len(jobs)) / float64(m.state.TotalCount)
	}
	b.WriteString("\n" + m.progress.ViewAs(pct))
	b.WriteString(fmt.Sprintf(" %d/%d", len(jobs), m.state.TotalCount))
	if m.search.State().Loading {
		b.WriteString(" loading...")
	}
	b.WriteString("\n")

	if m.status != "" {
		if m.status == m.state.Err {
			b.WriteString(m.theme.errorStyle().Render("✗ "+m.status) + "\n")
		} else {
			b.WriteString(m.status + "\n")
		}
	}
	b.WriteString(m.theme.hintStyle().Render("↑/↓ move · f favorite · r reload · q quit") + "\n")
	return b.String()
}

func (m browseModel) renderRow(i int, job models.Job, now time.Time) string {
	prefix := "  "
	if i == m.cursor {
		prefix = m.theme.cursorStyle().Render("> ")
	}
	mark := " "
	if m.favs.IsFavorite(job) {
		mark = m.theme.favoriteStyle().Render(favoriteMark)
	}
	row := fmt.Sprintf("%s%s %s · %s · %s · %s", prefix, mark, job.Title, job.Company, job.Location, job.Type)
	if models.IsFresh(job, now) {
		row += " " + m.theme.freshStyle().Render("new")
	}
	return row
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("browse needs an interactive terminal, use search instead")
	}
	params, err := browseQuery.params(args)
	if err != nil {
		return err
	}

	model := newBrowseModel(cmd.Context(), application.Search, application.Favorites, params)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("browser UI error: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d favorites saved.\n", application.Favorites.Count())
	return nil
}
