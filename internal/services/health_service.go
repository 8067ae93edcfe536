package services

import (
	"context"
	"log/slog"
	"time"

	"genaidash/pkg/contracts"
	api "genaidash/pkg/contracts/api/v1"
)

// HealthService reports process liveness
type HealthService struct {
	version   string
	startTime time.Time
	logger    *slog.Logger
}

// NewHealthService creates a new health service
func NewHealthService(logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   contracts.Version,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// HealthCheck performs a basic health check
func (s *HealthService) HealthCheck(ctx context.Context) api.HealthResponse {
	uptime := time.Since(s.startTime).Truncate(time.Second)
	s.logger.DebugContext(ctx, "health check", slog.Duration("uptime", uptime))

	return api.HealthResponse{
		Status:  "ok",
		Version: s.version,
		Uptime:  uptime.String(),
	}
}

// Version returns build information
func (s *HealthService) Version() contracts.VersionInfo {
	return contracts.GetVersionInfo()
}
