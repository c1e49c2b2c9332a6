package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/raphaelgruber/jobfinder-go/internal/models"
	"github.com/raphaelgruber/jobfinder-go/internal/service"
	"github.com/spf13/cobra"
)

const favoriteMark = "★"

// queryFlags are shared by every command that runs a search.
type queryFlags struct {
	location string
	mode     string
	pages    int
}

func (q *queryFlags) register(cmd *cobra.Command, withPages bool) {
	cmd.Flags().StringVarP(&q.location, "location", "l", "", "city or region (default from config)")
	cmd.Flags().StringVarP(&q.mode, "mode", "m", "", "work mode: "+strings.Join(models.Modes, ", "))
	if withPages {
		cmd.Flags().IntVarP(&q.pages, "pages", "p", 1, "number of pages to load")
	}
}

func (q *queryFlags) params(args []string) (models.SearchParams, error) {
	p := models.SearchParams{
		Keywords: strings.TrimSpace(strings.Join(args, " ")),
		Location: strings.TrimSpace(q.location),
		Mode:     strings.TrimSpace(q.mode),
	}
	if p.Mode != "" && !slices.Contains(models.Modes, p.Mode) {
		return p, fmt.Errorf("unknown mode %q (want one of %s)", p.Mode, strings.Join(models.Modes, ", "))
	}
	return p, nil
}

// loadPages starts a fresh search and keeps loading until pages pages are in
// or the source runs out.
func loadPages(ctx context.Context, ctrl *service.SearchController, params models.SearchParams, pages int) error {
	if pages < 1 {
		return fmt.Errorf("pages must be at least 1, got %d", pages)
	}

	if ctrl.ResetAndSearch(ctx, params) == service.OutcomeFailed {
		return errors.New(ctrl.State().Err)
	}
	for i := 1; i < pages; i++ {
		switch ctrl.LoadMore(ctx, params) {
		case service.OutcomeFailed:
			return errors.New(ctrl.State().Err)
		case service.OutcomeSkippedExhausted:
			return nil
		}
	}
	return nil
}

// publishedLabel renders the publication date relative to now.
func publishedLabel(job models.Job, now time.Time) string {
	if job.PublishedAt == nil {
		return "-"
	}
	return humanize.RelTime(*job.PublishedAt, now, "ago", "from now")
}

// printJobs renders jobs as a numbered table. Favorites get a star.
func printJobs(w io.Writer, jobs []models.Job, favs *service.FavoritesService, now time.Time) error {
	data := pterm.TableData{{"#", "", "Title", "Company", "Location", "Mode", "Salary", "Published"}}
	for i, job := range jobs {
		mark := ""
		if favs != nil && favs.IsFavorite(job) {
			mark = pterm.Yellow(favoriteMark)
		}
		salary := job.Salary
		if salary == "" {
			salary = "-"
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			mark,
			job.Title,
			job.Company,
			job.Location,
			job.Type,
			salary,
			publishedLabel(job, now),
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	_, err = fmt.Fprintln(w, table)
	return err
}

// printSummary prints the totals line under a result table.
func printSummary(w io.Writer, st service.SearchState) {
	fmt.Fprintf(w, "\n%s of %s listings loaded (page %d)",
		humanize.Comma(int64(len(st.Jobs))), humanize.Comma(int64(st.TotalCount)), st.Page)
	if filters := st.Params.AppliedFilters(); filters != "" {
		fmt.Fprintf(w, " · %s", filters)
	}
	if st.HasMore {
		fmt.Fprint(w, " · more available")
	}
	fmt.Fprintln(w)
}

// timeNow is swapped in tests.
var timeNow = time.Now
