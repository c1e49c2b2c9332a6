package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	searchQuery queryFlags
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [keywords]",
	Short: "Search job listings",
	Long: `Search job listings and print them as a table.

Favorited listings are marked with a star. Without keywords every role is
searched.

Examples:
  jobfinder search Redator
  jobfinder search "Analista de Marketing" --location Recife --mode Remoto
  jobfinder search Editor --pages 3
  jobfinder search Revisor --json`,
	RunE: runSearch,
}

func init() {
	searchQuery.register(searchCmd, true)
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print raw listings as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	params, err := searchQuery.params(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := loadPages(ctx, application.Search, params, searchQuery.pages); err != nil {
		return fmt.Errorf("search: %w", err)
	}

	st := application.Search.State()
	out := cmd.OutOrStdout()

	if searchJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(st.Jobs)
	}

	if len(st.Jobs) == 0 {
		fmt.Fprintln(out, "No listings found.")
		return nil
	}
	if err := printJobs(out, st.Jobs, application.Favorites, timeNow()); err != nil {
		return err
	}
	printSummary(out, st)
	return nil
}
