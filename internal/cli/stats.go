package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/raphaelgruber/jobfinder-go/internal/export"
	"github.com/raphaelgruber/jobfinder-go/internal/metrics"
	"github.com/raphaelgruber/jobfinder-go/internal/source"
	"github.com/spf13/cobra"
)

var statsQuery queryFlags

var statsCmd = &cobra.Command{
	Use:   "stats [keywords]",
	Short: "Summarise a search by company, region, mode and seniority",
	Long: `Run a search and print the report summary, catalogue statistics and
timing metrics.

Examples:
  jobfinder stats Redator --pages 5
  jobfinder stats --mode Remoto`,
	RunE: runStats,
}

func init() {
	statsQuery.register(statsCmd, true)
}

func runStats(cmd *cobra.Command, args []string) error {
	params, err := statsQuery.params(args)
	if err != nil {
		return err
	}
	if err := loadPages(cmd.Context(), application.Search, params, statsQuery.pages); err != nil {
		return fmt.Errorf("search: %w", err)
	}

	jobs := application.Search.Jobs()
	out := cmd.OutOrStdout()

	fmt.Fprint(out, export.RenderReportTextAt(jobs, timeNow()))
	fmt.Fprintln(out)

	s := source.Statistics(jobs)
	for _, section := range []struct {
		title  string
		counts map[string]int
	}{
		{"By region", s.ByRegion},
		{"By seniority", s.BySeniority},
		{"By company size", s.ByCompanySize},
	} {
		if err := printCounts(out, section.title, section.counts); err != nil {
			return err
		}
	}

	return printMetrics(out, application.Metrics.Snapshot())
}

func printCounts(w io.Writer, title string, counts map[string]int) error {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	data := pterm.TableData{{title, "Count"}}
	for _, k := range keys {
		data = append(data, []string{k, strconv.Itoa(counts[k])})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	fmt.Fprintln(w, table)
	return nil
}

func printMetrics(w io.Writer, snap metrics.Snapshot) error {
	data := pterm.TableData{{"Operation", "Count", "Failures", "Avg ms", "Max ms"}}
	for _, name := range snap.Names() {
		op := snap.Operations[name]
		data = append(data, []string{
			name,
			strconv.FormatInt(op.Count, 10),
			strconv.FormatInt(op.Failures, 10),
			strconv.FormatFloat(op.AvgTimeMs, 'f', 1, 64),
			strconv.FormatInt(op.MaxTimeMs, 10),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	fmt.Fprintln(w, table)
	return nil
}
