// Package cli provides the command-line interface for jobfinder.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/raphaelgruber/jobfinder-go/internal/app"
	"github.com/raphaelgruber/jobfinder-go/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose    bool
	configPath string

	// Global config and components, set up by PersistentPreRunE
	cfg         config.Config
	application *app.App
	logCleanup  func() error
	commandCtx  = context.Background()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "jobfinder",
	Short: "Browse Brazilian job listings from the terminal",
	Long: `Jobfinder searches job listings, pages through results, keeps a list of
favorites and exports results as CSV, JSON or a text report.

Listings come from a deterministic generator; favorites are stored in the
configured backend (file, sqlite, redis, surrealdb or memory).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Commands that only read the static catalogue need no setup
		if cmd.Annotations["standalone"] == "true" {
			return nil
		}

		var err error
		if configPath != "" {
			cfg, err = config.LoadFile(config.FromEnv(), configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// The TUI owns the terminal, so logs go to the file only
		var console io.Writer
		if verbose && cmd.Name() != "browse" {
			console = os.Stderr
		}
		logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel, console)
		logCleanup = cleanup

		application = app.New(commandCtx, cfg, logger)
		logger.Debug("jobfinder starting", "command", cmd.Name(), "store", cfg.StoreBackend)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if application != nil {
			if err := application.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close storage: %v\n", err)
			}
		}
		if logCleanup != nil {
			_ = logCleanup()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which is cancelled on
// interrupt by main.
func ExecuteContext(ctx context.Context) error {
	commandCtx = ctx
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr as well as the log file")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (overrides JOBFINDER_CONFIG)")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(favoritesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(citiesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(rolesCmd)
}
