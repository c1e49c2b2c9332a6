package cli

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	favoritesQuery queryFlags
	favoritesForce bool
)

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Manage favorite listings",
	Long: `Manage the favorites list. Favorites survive restarts when a persistent
storage backend is configured.

Subcommands:
  list    List favorites (default)
  add     Search and favorite the n-th result
  remove  Remove a favorite by URL
  clear   Remove all favorites

Examples:
  jobfinder favorites
  jobfinder favorites add 3 Redator --location Recife
  jobfinder favorites remove https://exemplo.com/vaga/nubank-0
  jobfinder favorites clear --force`,
	RunE: runFavoritesList,
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorites",
	RunE:  runFavoritesList,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <n> [keywords]",
	Short: "Search and favorite the n-th result (1-based)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFavoritesAdd,
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove <url>",
	Short: "Remove the favorite with this URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesRemove,
}

var favoritesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all favorites",
	RunE:  runFavoritesClear,
}

func init() {
	favoritesQuery.register(favoritesAddCmd, false)
	favoritesClearCmd.Flags().BoolVarP(&favoritesForce, "force", "f", false, "required, favorites cannot be recovered")

	favoritesCmd.AddCommand(favoritesListCmd)
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)
	favoritesCmd.AddCommand(favoritesClearCmd)
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	favs := application.Favorites

	if favs.Count() == 0 {
		fmt.Fprintln(out, "No favorites yet.")
		return nil
	}

	fmt.Fprintf(out, "Favorites (%d):\n\n", favs.Count())
	if err := printJobs(out, favs.Jobs(), nil, timeNow()); err != nil {
		return err
	}
	if verbose {
		for _, f := range favs.List() {
			fmt.Fprintf(out, "  %s  saved %s\n", f.URL, f.FavoritedAt.Local().Format("02/01/2006 15:04"))
		}
	}
	return nil
}

func runFavoritesAdd(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return fmt.Errorf("invalid position %q: want a number starting at 1", args[0])
	}
	params, err := favoritesQuery.params(args[1:])
	if err != nil {
		return err
	}

	pageSize := application.Search.PageSize()
	pages := (n + pageSize - 1) / pageSize
	if err := loadPages(cmd.Context(), application.Search, params, pages); err != nil {
		return fmt.Errorf("search: %w", err)
	}

	jobs := application.Search.Jobs()
	if n > len(jobs) {
		return fmt.Errorf("only %d listings available", len(jobs))
	}
	job := jobs[n-1]

	out := cmd.OutOrStdout()
	if application.Favorites.IsFavorite(job) {
		fmt.Fprintf(out, "Already a favorite: %s at %s\n", job.Title, job.Company)
		return nil
	}
	application.Favorites.Toggle(cmd.Context(), job)
	fmt.Fprintln(out, pterm.Green("✓ Added ")+fmt.Sprintf("%s at %s (%s)", job.Title, job.Company, job.URL))
	return nil
}

func runFavoritesRemove(cmd *cobra.Command, args []string) error {
	fav, ok := application.Favorites.Find(args[0])
	if !ok {
		return fmt.Errorf("no favorite with URL %s", args[0])
	}
	application.Favorites.Toggle(cmd.Context(), fav.Job)
	fmt.Fprintf(cmd.OutOrStdout(), "Removed: %s at %s\n", fav.Title, fav.Company)
	return nil
}

func runFavoritesClear(cmd *cobra.Command, args []string) error {
	if !favoritesForce {
		return fmt.Errorf("refusing to clear %d favorites without --force", application.Favorites.Count())
	}
	n := application.Favorites.Count()
	application.Favorites.Clear(cmd.Context())
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d favorites.\n", n)
	return nil
}
