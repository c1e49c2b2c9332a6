package source

import (
	"strings"

	"github.com/raphaelgruber/jobfinder-go/internal/models"
)

// Company is a catalogue employer.
type Company struct {
	Name   string
	Sector string
	Size   string
}

// City is a catalogue location.
type City struct {
	Name   string
	State  string
	Region string
}

// Label renders the city as "Name, ST".
func (c City) Label() string {
	return c.Name + ", " + c.State
}

var companies = []Company{
	{"Nubank", "Fintech", "Grande"},
	{"iFood", "Delivery", "Grande"},
	{"Magazine Luiza", "E-commerce", "Grande"},
	{"Mercado Livre", "E-commerce", "Grande"},
	{"Stone", "Fintech", "Média"},
	{"PicPay", "Fintech", "Média"},
	{"Gympass", "Saúde", "Média"},
	{"Loggi", "Logística", "Média"},
	{"QuintoAndar", "PropTech", "Média"},
	{"Creditas", "Fintech", "Média"},
	{"Conta Azul", "SaaS", "Pequena"},
	{"Resultados Digitais", "Marketing", "Pequena"},
	{"Rock Content", "Marketing", "Pequena"},
	{"Hotmart", "EdTech", "Média"},
	{"Movile", "Mobile", "Média"},
	{"VTEX", "E-commerce", "Média"},
	{"Locaweb", "Hosting", "Média"},
	{"UOL", "Mídia", "Grande"},
	{"Globo.com", "Mídia", "Grande"},
	{"B2W Digital", "E-commerce", "Grande"},
}

var cities = []City{
	{"São Paulo", "SP", "Sudeste"},
	{"Rio de Janeiro", "RJ", "Sudeste"},
	{"Belo Horizonte", "MG", "Sudeste"},
	{"Porto Alegre", "RS", "Sul"},
	{"Curitiba", "PR", "Sul"},
	{"Recife", "PE", "Nordeste"},
	{"Salvador", "BA", "Nordeste"},
	{"Brasília", "DF", "Centro-Oeste"},
	{"Fortaleza", "CE", "Nordeste"},
	{"Florianópolis", "SC", "Sul"},
}

// seniority levels with their salary base in BRL.
var levels = []struct {
	Name string
	Base float64
}{
	{"Júnior", 3000},
	{"Pleno", 6000},
	{"Sênior", 10000},
	{"Especialista", 15000},
}

// Companies returns a copy of the employer catalogue.
func Companies() []Company {
	out := make([]Company, len(companies))
	copy(out, companies)
	return out
}

// Cities returns a copy of the city catalogue.
func Cities() []City {
	out := make([]City, len(cities))
	copy(out, cities)
	return out
}

const (
	minSuggestionQuery = 2
	maxSuggestions     = 5
)

// CitySuggestions returns up to five "Name, ST" labels whose city name or
// state contains query, case-insensitively. Queries shorter than two
// characters yield nothing.
func CitySuggestions(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if len([]rune(q)) < minSuggestionQuery {
		return []string{}
	}

	out := []string{}
	for _, c := range cities {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.State), q) {
			out = append(out, c.Label())
			if len(out) == maxSuggestions {
				break
			}
		}
	}
	return out
}

// Stats summarises a result list by catalogue dimensions.
type Stats struct {
	Total         int            `json:"total"`
	ByRegion      map[string]int `json:"byRegion"`
	ByType        map[string]int `json:"byType"`
	BySeniority   map[string]int `json:"bySeniority"`
	ByCompanySize map[string]int `json:"byCompanySize"`
}

// Statistics counts jobs by region, work mode, seniority and company size.
// Region is resolved from the first catalogue city named in the location.
func Statistics(jobs []models.Job) Stats {
	s := Stats{
		Total:         len(jobs),
		ByRegion:      map[string]int{},
		ByType:        map[string]int{},
		BySeniority:   map[string]int{},
		ByCompanySize: map[string]int{},
	}

	for _, job := range jobs {
		for _, c := range cities {
			if strings.Contains(job.Location, c.Name) {
				s.ByRegion[c.Region]++
				break
			}
		}
		if job.Type != "" {
			s.ByType[job.Type]++
		}
		if job.Seniority != "" {
			s.BySeniority[job.Seniority]++
		}
		if job.CompanySize != "" {
			s.ByCompanySize[job.CompanySize]++
		}
	}
	return s
}
