// Package source provides job listing sources.
package source

import (
	"context"

	"github.com/raphaelgruber/jobfinder-go/internal/models"
)

// Request asks a source for one page of listings.
type Request struct {
	Keywords string
	Location string
	Page     int // 1-based
	PageSize int
}

// Result is one page of listings.
type Result struct {
	Jobs       []models.Job
	TotalCount int
	Page       int
	PageSize   int
	HasMore    bool
}

// Source fetches pages of job listings.
type Source interface {
	Name() string
	Fetch(ctx context.Context, req Request) (Result, error)
}
