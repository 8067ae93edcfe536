package domain

import "time"

// RunStatus is the outcome of a dashboard generation run
type RunStatus string

const (
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// GenerationRun records one invocation of the dashboard pipeline
type GenerationRun struct {
	ID           string        `json:"id"`
	Region       string        `json:"region"`
	Sources      []string      `json:"sources"`
	OutputBucket string        `json:"output_bucket,omitempty"`
	Rows         int           `json:"rows"`
	URL          string        `json:"url,omitempty"`
	Status       RunStatus     `json:"status"`
	Error        string        `json:"error,omitempty"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration_ns"`
}
