package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/raphaelgruber/jobfinder-go/internal/export"
	"github.com/raphaelgruber/jobfinder-go/internal/metrics"
	"github.com/raphaelgruber/jobfinder-go/internal/models"
	"github.com/spf13/cobra"
)

var (
	exportQuery     queryFlags
	exportOut       string
	exportFavorites bool
)

var exportCmd = &cobra.Command{
	Use:   "export <csv|json|report> [keywords]",
	Short: "Export listings as CSV, JSON or a text report",
	Long: `Export search results (or the favorites) to a file named after the
format and today's date, e.g. vagas-br-2024-06-01.csv.

Use --out - to print to stdout instead.

Examples:
  jobfinder export csv Redator --pages 5
  jobfinder export json "Editor de Texto" --out ./exports
  jobfinder export report --favorites
  jobfinder export csv Revisor --out -`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	exportQuery.register(exportCmd, true)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output directory (default from config, - for stdout)")
	exportCmd.Flags().BoolVar(&exportFavorites, "favorites", false, "export favorites instead of searching")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(args[0])
	if err != nil {
		return err
	}

	var jobs []models.Job
	if exportFavorites {
		jobs = application.Favorites.Jobs()
	} else {
		params, err := exportQuery.params(args[1:])
		if err != nil {
			return err
		}
		if err := loadPages(cmd.Context(), application.Search, params, exportQuery.pages); err != nil {
			return fmt.Errorf("search: %w", err)
		}
		jobs = application.Search.Jobs()
	}
	if len(jobs) == 0 {
		return errors.New("nothing to export")
	}

	artifact, err := export.Render(format, jobs, timeNow())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if exportOut == "-" {
		_, err := fmt.Fprintln(out, artifact.Content)
		return err
	}

	dir := exportOut
	if dir == "" {
		dir = cfg.ExportDir
	}
	path, err := saveArtifact(dir, artifact)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Exported %d listings to %s (%s)\n",
		len(jobs), path, humanize.Bytes(uint64(len(artifact.Content))))
	return nil
}

func saveArtifact(dir string, a export.Artifact) (path string, err error) {
	defer application.Metrics.Observe(metrics.OpExport, time.Now(), &err)
	return export.Save(dir, a)
}
