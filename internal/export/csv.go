// Package export renders job lists as CSV, JSON and plain-text reports.
package export

import (
	"strings"
	"time"

	"github.com/raphaelgruber/jobfinder-go/internal/models"
)

// CSVHeader is the fixed first line of every CSV export.
const CSVHeader = "cargo,titulo,empresa,local,publicadoEm,modalidade,salario,link"

// displayDate is the dd/mm/yyyy layout used in exports.
const displayDate = "02/01/2006"

// CSV renders jobs as CSV. Every data field is double-quoted with inner
// quotes doubled. The output has exactly len(jobs)+1 lines and no trailing
// newline.
func CSV(jobs []models.Job) string {
	var b strings.Builder
	b.WriteString(CSVHeader)

	for _, job := range jobs {
		b.WriteByte('\n')
		fields := []string{
			job.Role,
			job.Title,
			job.Company,
			job.Location,
			formatDate(job.PublishedAt),
			job.Type,
			job.Salary,
			job.URL,
		}
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quote(f))
		}
	}
	return b.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// formatDate renders t as dd/mm/yyyy in local time, or "" when absent.
func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format(displayDate)
}
