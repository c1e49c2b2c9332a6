package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/raphaelgruber/jobfinder-go/internal/models"
)

const (
	recentWindow = 7 * 24 * time.Hour
	topN         = 10
)

// Bucket is one group of a tally.
type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Tally counts values in first-seen order.
type Tally []Bucket

// Get returns the count for key.
func (t Tally) Get(key string) int {
	for _, b := range t {
		if b.Key == key {
			return b.Count
		}
	}
	return 0
}

// Sorted returns a copy ordered by count descending. Ties keep first-seen order.
func (t Tally) Sorted() Tally {
	out := make(Tally, len(t))
	copy(out, t)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Top returns the n largest buckets.
func (t Tally) Top(n int) Tally {
	s := t.Sorted()
	if len(s) > n {
		s = s[:n]
	}
	return s
}

// tally counts non-empty values.
func tally(jobs []models.Job, field func(models.Job) string) Tally {
	out := Tally{}
	index := map[string]int{}
	for _, job := range jobs {
		v := field(job)
		if v == "" {
			continue
		}
		if i, ok := index[v]; ok {
			out[i].Count++
			continue
		}
		index[v] = len(out)
		out = append(out, Bucket{Key: v, Count: 1})
	}
	return out
}

// Report is the aggregate summary of a job list.
type Report struct {
	Total       int       `json:"total"`
	ByType      Tally     `json:"byType"`
	ByLocation  Tally     `json:"byLocation"`
	ByCompany   Tally     `json:"byCompany"`
	RecentJobs  int       `json:"recentJobs"`
	WithSalary  int       `json:"withSalary"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// BuildReport summarises jobs as of now.
func BuildReport(jobs []models.Job) Report {
	return BuildReportAt(jobs, time.Now())
}

// BuildReportAt summarises jobs relative to now. A job is recent when it was
// published at or after now minus seven days.
func BuildReportAt(jobs []models.Job, now time.Time) Report {
	r := Report{
		Total:       len(jobs),
		ByType:      tally(jobs, func(j models.Job) string { return j.Type }),
		ByLocation:  tally(jobs, func(j models.Job) string { return j.Location }),
		ByCompany:   tally(jobs, func(j models.Job) string { return j.Company }),
		GeneratedAt: now,
	}

	cutoff := now.Add(-recentWindow)
	for _, job := range jobs {
		if job.PublishedAt != nil && !job.PublishedAt.Before(cutoff) {
			r.RecentJobs++
		}
		if job.Salary != "" {
			r.WithSalary++
		}
	}
	return r
}

// RenderReportText renders the plain-text report as of now.
func RenderReportText(jobs []models.Job) string {
	return RenderReportTextAt(jobs, time.Now())
}

// RenderReportTextAt renders the plain-text report relative to now.
func RenderReportTextAt(jobs []models.Job, now time.Time) string {
	r := BuildReportAt(jobs, now)

	var b strings.Builder
	fmt.Fprintf(&b, "RELATÓRIO DE VAGAS - %s\n", now.Local().Format(displayDate))
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	b.WriteString("RESUMO GERAL:\n")
	fmt.Fprintf(&b, "- Total de vagas: %d\n", r.Total)
	fmt.Fprintf(&b, "- Vagas recentes (7 dias): %d\n", r.RecentJobs)
	fmt.Fprintf(&b, "- Vagas com salário informado: %d\n\n", r.WithSalary)

	b.WriteString("DISTRIBUIÇÃO POR MODALIDADE:\n")
	writeBuckets(&b, r.ByType.Sorted())
	b.WriteString("\n")

	b.WriteString("TOP 10 LOCALIZAÇÕES:\n")
	writeBuckets(&b, r.ByLocation.Top(topN))
	b.WriteString("\n")

	b.WriteString("TOP 10 EMPRESAS:\n")
	writeBuckets(&b, r.ByCompany.Top(topN))

	return strings.TrimSpace(b.String())
}

func writeBuckets(b *strings.Builder, buckets Tally) {
	for _, bk := range buckets {
		fmt.Fprintf(b, "- %s: %d vagas\n", bk.Key, bk.Count)
	}
}
