// Package models defines data structures for the job listing browser.
package models

import (
	"strings"
	"time"
)

// Work modes offered by the listing catalogue. The set is open: sources may
// return other values.
const (
	ModeRemote = "Remoto"
	ModeOnSite = "Presencial"
	ModeHybrid = "Híbrido"
)

// DefaultLocation is used when a search carries no location.
const DefaultLocation = "Brasil"

// Job is a single job listing.
type Job struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	URL         string     `json:"url"`
	Type        string     `json:"type"`
	Salary      string     `json:"salary,omitempty"`
	Snippet     string     `json:"snippet,omitempty"`
	Role        string     `json:"role,omitempty"` // Search keyword that produced the record

	// Catalogue enrichment, feeds statistics only
	Sector      string `json:"sector,omitempty"`
	CompanySize string `json:"companySize,omitempty"`
	Seniority   string `json:"seniority,omitempty"`
}

// SameListing reports whether two records describe the same listing.
// Records match on a shared non-empty ID or a shared non-empty URL. Two
// records carrying neither match on the ID derived from company, title and
// publish time.
func (j Job) SameListing(other Job) bool {
	if j.ID != "" && j.ID == other.ID {
		return true
	}
	if j.URL != "" && j.URL == other.URL {
		return true
	}
	if j.anonymous() && other.anonymous() {
		return DeriveID(j.Company, j.Title, j.PublishedAt) == DeriveID(other.Company, other.Title, other.PublishedAt)
	}
	return false
}

func (j Job) anonymous() bool {
	return j.ID == "" && j.URL == ""
}

// Favorite is a job the user bookmarked.
type Favorite struct {
	Job
	FavoritedAt time.Time `json:"favoritedAt"`
}

// SearchParams are the user-facing search inputs.
type SearchParams struct {
	Keywords string `json:"keywords"`
	Location string `json:"location,omitempty"`
	Mode     string `json:"mode,omitempty"`
}

// Fingerprint identifies a search for redundant-request detection.
func (p SearchParams) Fingerprint() string {
	return p.Keywords + "-" + p.Location + "-" + p.Mode
}

// EffectiveKeywords folds the work mode into the keyword query.
func (p SearchParams) EffectiveKeywords() string {
	if p.Mode == "" {
		return p.Keywords
	}
	return p.Keywords + " " + p.Mode
}

// EffectiveLocation returns the location, or def when none was given.
func (p SearchParams) EffectiveLocation(def string) string {
	if strings.TrimSpace(p.Location) == "" {
		return def
	}
	return p.Location
}

// AppliedFilters renders a short summary such as "redator | cidade:Recife | modalidade:Remoto".
func (p SearchParams) AppliedFilters() string {
	parts := []string{p.Keywords}
	if p.Location != "" {
		parts = append(parts, "cidade:"+p.Location)
	}
	if p.Mode != "" {
		parts = append(parts, "modalidade:"+p.Mode)
	}
	return strings.Join(parts, " | ")
}

// Roles are the preset role keywords. The first one is the default query.
var Roles = []string{
	"Content Designer",
	"Content Strategist",
	"Digital Storyteller",
	"Documentation Manager",
	"Documentation Specialist",
	"Information Architect",
	"Technical Author",
	"Technical Communicator",
	"Technical Editor",
	"Technical Evangelist",
}

// Modes lists the work modes a search can filter by.
var Modes = []string{ModeRemote, ModeOnSite, ModeHybrid}
