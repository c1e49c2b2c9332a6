package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/raphaelgruber/jobfinder-go/internal/models"
)

// Format is an export output format.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatReport Format = "report"
)

// Default filename prefixes.
const (
	ListPrefix   = "vagas-br"
	ReportPrefix = "relatorio-vagas"
)

// ParseFormat accepts csv, json, report (or txt).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "report", "txt":
		return FormatReport, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want csv, json or report)", s)
	}
}

// Artifact is a rendered export ready to be saved or returned.
type Artifact struct {
	Format   Format `json:"format"`
	Filename string `json:"filename"`
	MIMEType string `json:"mimeType"`
	Content  string `json:"content"`
}

// Filename returns "<prefix>-<YYYY-MM-DD>.<ext>" using the UTC date of now.
func Filename(prefix, ext string, now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", prefix, now.UTC().Format("2006-01-02"), ext)
}

// Render builds the artifact for format.
func Render(format Format, jobs []models.Job, now time.Time) (Artifact, error) {
	switch format {
	case FormatCSV:
		return Artifact{
			Format:   format,
			Filename: Filename(ListPrefix, "csv", now),
			MIMEType: "text/csv;charset=utf-8",
			Content:  CSV(jobs),
		}, nil
	case FormatJSON:
		return Artifact{
			Format:   format,
			Filename: Filename(ListPrefix, "json", now),
			MIMEType: "application/json",
			Content:  JSON(jobs),
		}, nil
	case FormatReport:
		return Artifact{
			Format:   format,
			Filename: Filename(ReportPrefix, "txt", now),
			MIMEType: "text/plain;charset=utf-8",
			Content:  RenderReportTextAt(jobs, now),
		}, nil
	default:
		return Artifact{}, fmt.Errorf("unknown export format %q", format)
	}
}

// Save writes the artifact into dir and returns the file path.
func Save(dir string, a Artifact) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(dir, a.Filename)
	if err := os.WriteFile(path, []byte(a.Content), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
