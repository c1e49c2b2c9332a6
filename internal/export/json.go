package export

import (
	"bytes"
	"encoding/json"

	"github.com/raphaelgruber/jobfinder-go/internal/models"
)

// jsonRecord fixes the key order of exported objects.
type jsonRecord struct {
	Cargo       string `json:"cargo"`
	Titulo      string `json:"titulo"`
	Empresa     string `json:"empresa"`
	Local       string `json:"local"`
	PublicadoEm string `json:"publicadoEm"`
	Modalidade  string `json:"modalidade"`
	Salario     string `json:"salario"`
	Link        string `json:"link"`
	Descricao   string `json:"descricao"`
}

// JSON renders jobs as a 2-space indented array. Empty input yields "[]".
func JSON(jobs []models.Job) string {
	records := make([]jsonRecord, 0, len(jobs))
	for _, job := range jobs {
		records = append(records, jsonRecord{
			Cargo:       job.Role,
			Titulo:      job.Title,
			Empresa:     job.Company,
			Local:       job.Location,
			PublicadoEm: models.FormatTimestamp(job.PublishedAt),
			Modalidade:  job.Type,
			Salario:     job.Salary,
			Link:        job.URL,
			Descricao:   job.Snippet,
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	// strings only, encoding cannot fail
	_ = enc.Encode(records)

	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
