package http

import (
	"context"

	"genaidash/internal/config"
	"genaidash/internal/services"
	"genaidash/pkg/contracts"
	api "genaidash/pkg/contracts/api/v1"
	"genaidash/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard operations exposed over HTTP
type DashboardServiceInterface interface {
	Settings() config.Settings
	Summarize(ctx context.Context, sources []string) (domain.DatasetSummary, error)
	Generate(ctx context.Context, req services.GenerateRequest) (domain.GenerationRun, error)
	History(ctx context.Context, limit int) ([]domain.GenerationRun, error)
	Run(ctx context.Context, id string) (domain.GenerationRun, error)
}

// HealthServiceInterface defines the liveness operations
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) api.HealthResponse
	Version() contracts.VersionInfo
}
