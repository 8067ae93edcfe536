// Package api contains the HTTP contract definitions for genaidash.
// Version v1 represents the current API version.
package api

import (
	"genaidash/pkg/contracts/domain"
)

// ProcessRequest asks the server to load and clean a set of data sources
type ProcessRequest struct {
	Sources []string `json:"sources" validate:"required,min=1,dive,required"`
}

// GenerateDashboardRequest asks the server to run the dashboard pipeline
type GenerateDashboardRequest struct {
	Region       string   `json:"region,omitempty"`
	Sources      []string `json:"sources" validate:"required,min=1,dive,required"`
	OutputBucket string   `json:"output_bucket,omitempty"`
}

// ProcessResponse describes the cleaned table
type ProcessResponse struct {
	Rows    int                    `json:"rows"`
	Columns []domain.ColumnSummary `json:"columns"`
}

// GenerateDashboardResponse carries the dashboard location
type GenerateDashboardResponse struct {
	RunID string `json:"run_id"`
	URL   string `json:"url"`
}

// HistoryResponse lists past generation runs, newest first
type HistoryResponse struct {
	Runs []domain.GenerationRun `json:"runs"`
}

// HealthResponse reports service liveness
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}
