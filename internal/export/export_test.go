package export

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/raphaelgruber/jobfinder-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noon keeps the local calendar date stable across time zones.
var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

func sampleJobs() []models.Job {
	return []models.Job{
		{
			Role: "Technical Writer", Title: "Technical Writer - Pleno", Company: "Nubank",
			Location: "São Paulo, SP", PublishedAt: ptr(now.Add(-24 * time.Hour)),
			URL: "https://exemplo.com/vaga/nubank-0", Type: models.ModeRemote, Salary: "R$ 7000",
			Snippet: "Oportunidade <remota> & flexível",
		},
		{
			Role: "Technical Writer", Title: `Writer "Sênior"`, Company: "iFood",
			Location: "Recife, PE", PublishedAt: ptr(now.Add(-10 * 24 * time.Hour)),
			URL: "https://exemplo.com/vaga/ifood-1", Type: models.ModeHybrid,
		},
		{
			Role: "Technical Writer", Title: "Redator, Júnior", Company: "Nubank",
			Location: "São Paulo, SP", URL: "https://exemplo.com/vaga/nubank-2", Type: models.ModeRemote,
		},
	}
}

func TestCSVEmpty(t *testing.T) {
	assert.Equal(t, CSVHeader, CSV(nil))
	assert.Equal(t, CSVHeader, CSV([]models.Job{}))
}

func TestCSVRows(t *testing.T) {
	out := CSV(sampleJobs())
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, CSVHeader, lines[0])
	assert.Equal(t, `"Technical Writer","Technical Writer - Pleno","Nubank","São Paulo, SP","14/03/2024","Remoto","R$ 7000","https://exemplo.com/vaga/nubank-0"`, lines[1])
	assert.Equal(t, `"Technical Writer","Writer ""Sênior""","iFood","Recife, PE","05/03/2024","Híbrido","","https://exemplo.com/vaga/ifood-1"`, lines[2])
	assert.Equal(t, `"Technical Writer","Redator, Júnior","Nubank","São Paulo, SP","","Remoto","","https://exemplo.com/vaga/nubank-2"`, lines[3])
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestCSVQuotingRoundTrip(t *testing.T) {
	job := models.Job{Title: `He said "hi"`}
	out := CSV([]models.Job{job})
	assert.Contains(t, out, `"He said ""hi"""`)
}

func TestJSONEmpty(t *testing.T) {
	assert.Equal(t, "[]", JSON(nil))
}

func TestJSONRecords(t *testing.T) {
	out := JSON(sampleJobs())

	var records []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 3)

	assert.Equal(t, "Technical Writer", records[0]["cargo"])
	assert.Equal(t, "2024-03-14T12:00:00.000Z", records[0]["publicadoEm"])
	assert.Equal(t, "", records[2]["publicadoEm"])
	assert.Equal(t, "Oportunidade <remota> & flexível", records[0]["descricao"])

	// key order and no HTML escaping
	assert.Contains(t, out, "  {\n    \"cargo\": \"Technical Writer\",\n    \"titulo\":")
	assert.Contains(t, out, "<remota> &")
	assert.Less(t, strings.Index(out, `"link"`), strings.Index(out, `"descricao"`))
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestBuildReport(t *testing.T) {
	r := BuildReportAt(sampleJobs(), now)

	assert.Equal(t, 3, r.Total)
	assert.Equal(t, 1, r.RecentJobs)
	assert.Equal(t, 1, r.WithSalary)
	assert.Equal(t, Tally{{models.ModeRemote, 2}, {models.ModeHybrid, 1}}, r.ByType)
	assert.Equal(t, 2, r.ByLocation.Get("São Paulo, SP"))
	assert.Equal(t, 2, r.ByCompany.Get("Nubank"))
	assert.Equal(t, 0, r.ByCompany.Get("Stone"))
}

func TestBuildReportRecentBoundary(t *testing.T) {
	exactly := now.Add(-7 * 24 * time.Hour)
	justOver := exactly.Add(-time.Second)
	jobs := []models.Job{{PublishedAt: &exactly}, {PublishedAt: &justOver}}

	assert.Equal(t, 1, BuildReportAt(jobs, now).RecentJobs)
}

func TestBuildReportSkipsEmptyGroups(t *testing.T) {
	r := BuildReportAt([]models.Job{{Title: "x"}}, now)
	assert.Empty(t, r.ByType)
	assert.Empty(t, r.ByLocation)
	assert.Empty(t, r.ByCompany)
}

func TestTallyTopKeepsFirstSeenOrderOnTies(t *testing.T) {
	tl := Tally{{"a", 1}, {"b", 3}, {"c", 1}, {"d", 3}}
	assert.Equal(t, Tally{{"b", 3}, {"d", 3}, {"a", 1}}, tl.Top(3))
	// original untouched
	assert.Equal(t, "a", tl[0].Key)
}

func TestRenderReportText(t *testing.T) {
	out := RenderReportTextAt(sampleJobs(), now)

	want := `RELATÓRIO DE VAGAS - 15/03/2024
==================================================

RESUMO GERAL:
- Total de vagas: 3
- Vagas recentes (7 dias): 1
- Vagas com salário informado: 1

DISTRIBUIÇÃO POR MODALIDADE:
- Remoto: 2 vagas
- Híbrido: 1 vagas

TOP 10 LOCALIZAÇÕES:
- São Paulo, SP: 2 vagas
- Recife, PE: 1 vagas

TOP 10 EMPRESAS:
- Nubank: 2 vagas
- iFood: 1 vagas`
	assert.Equal(t, want, out)
}

func TestRenderReportTextEmpty(t *testing.T) {
	out := RenderReportTextAt(nil, now)
	assert.True(t, strings.HasPrefix(out, "RELATÓRIO DE VAGAS - 15/03/2024"))
	assert.Contains(t, out, "- Total de vagas: 0")
	assert.True(t, strings.HasSuffix(out, "TOP 10 EMPRESAS:"))
}

func TestRenderReportTextTopTen(t *testing.T) {
	var jobs []models.Job
	for i := 0; i < 12; i++ {
		jobs = append(jobs, models.Job{Company: string(rune('A' + i))})
	}
	out := RenderReportTextAt(jobs, now)
	section := out[strings.Index(out, "TOP 10 EMPRESAS:"):]
	assert.Equal(t, 11, len(strings.Split(section, "\n")))
}

func TestFilename(t *testing.T) {
	late := time.Date(2024, 3, 15, 23, 30, 0, 0, time.FixedZone("BRT", -3*3600))
	assert.Equal(t, "vagas-br-2024-03-16.csv", Filename(ListPrefix, "csv", late))
	assert.Equal(t, "relatorio-vagas-2024-03-15.txt", Filename(ReportPrefix, "txt", now))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"JSON", FormatJSON, false},
		{"report", FormatReport, false},
		{"txt", FormatReport, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderAndSave(t *testing.T) {
	jobs := sampleJobs()

	tests := []struct {
		format   Format
		filename string
		mime     string
	}{
		{FormatCSV, "vagas-br-2024-03-15.csv", "text/csv;charset=utf-8"},
		{FormatJSON, "vagas-br-2024-03-15.json", "application/json"},
		{FormatReport, "relatorio-vagas-2024-03-15.txt", "text/plain;charset=utf-8"},
	}

	dir := t.TempDir()
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			a, err := Render(tt.format, jobs, now)
			require.NoError(t, err)
			assert.Equal(t, tt.filename, a.Filename)
			assert.Equal(t, tt.mime, a.MIMEType)
			assert.NotEmpty(t, a.Content)

			path, err := Save(dir, a)
			require.NoError(t, err)
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, a.Content, string(data))
		})
	}

	_, err := Render("xml", jobs, now)
	require.Error(t, err)
}
