package cli

import (
	"fmt"

	"github.com/raphaelgruber/jobfinder-go/internal/models"
	"github.com/raphaelgruber/jobfinder-go/internal/source"
	"github.com/spf13/cobra"
)

var citiesCmd = &cobra.Command{
	Use:   "cities <query>",
	Short: "Suggest city names",
	Long: `Suggest up to five "City, ST" labels matching a partial city or state name.

Examples:
  jobfinder cities sa
  jobfinder cities rj`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{"standalone": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		suggestions := source.CitySuggestions(args[0])
		if len(suggestions) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No matching cities.")
			return nil
		}
		for _, s := range suggestions {
			fmt.Fprintln(cmd.OutOrStdout(), s)
		}
		return nil
	},
}

var rolesCmd = &cobra.Command{
	Use:         "roles",
	Short:       "List preset roles",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{"standalone": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		for i, r := range models.Roles {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, r)
		}
		return nil
	},
}
