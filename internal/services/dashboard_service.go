package services

import (
	"context"
	"log/slog"

	"genaidash/internal/config"
	"genaidash/internal/dashboard"
	"genaidash/internal/dataprocessing"
	apperrors "genaidash/internal/errors"
	"genaidash/internal/exporter"
	"genaidash/internal/files"
	"genaidash/pkg/contracts/domain"
)

// RunStore records and lists generation runs
type RunStore interface {
	dashboard.RunRecorder
	List(ctx context.Context, limit int) ([]domain.GenerationRun, error)
	Get(ctx context.Context, id string) (domain.GenerationRun, error)
}

// GenerateRequest describes one dashboard to build. An empty Region uses the
// configured default.
type GenerateRequest struct {
	Region       string
	Sources      []string
	OutputBucket string
}

// DashboardService builds a dashboard per request from a shared settings
// snapshot and collaborators
type DashboardService struct {
	settings  config.Settings
	history   RunStore
	discovery *files.Discovery
	deps      []dashboard.Option
	logger    *slog.Logger
}

// NewDashboardService creates a dashboard service. history may be nil; deps
// are applied to every dashboard the service creates.
func NewDashboardService(settings config.Settings, history RunStore, logger *slog.Logger, deps ...dashboard.Option) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		settings:  settings,
		history:   history,
		discovery: files.NewDiscovery(""),
		deps:      deps,
		logger:    logger,
	}
}

// Settings returns the snapshot with secrets masked
func (s *DashboardService) Settings() config.Settings {
	return s.settings.Redacted()
}

// Process resolves, loads and cleans sources with the privacy rules applied,
// without generating a dashboard
func (s *DashboardService) Process(ctx context.Context, sources []string) (*dataprocessing.Table, error) {
	resolved, err := s.discovery.Resolve(sources)
	if err != nil {
		return nil, err
	}

	p := dataprocessing.NewProcessor(
		dataprocessing.WithLogger(s.logger),
		dataprocessing.WithPreClean(dataprocessing.PrivacyTransform(s.settings.Privacy)),
	)
	return p.Process(ctx, resolved)
}

// Summarize processes sources and describes the result column by column. In
// aggregation-only mode the summary carries no example cell values.
func (s *DashboardService) Summarize(ctx context.Context, sources []string) (domain.DatasetSummary, error) {
	table, err := s.Process(ctx, sources)
	if err != nil {
		return domain.DatasetSummary{}, err
	}

	summarizer := dataprocessing.NewSummarizer(s.logger, dataprocessing.SummarizerConfig{
		OmitExamples: s.settings.Privacy.AggregationOnly,
	})
	return summarizer.Summarize(ctx, table), nil
}

// Export processes sources and writes the row-level table to path, in the
// format its extension selects. It is refused before any source is read when
// the privacy settings restrict output to aggregates.
func (s *DashboardService) Export(ctx context.Context, sources []string, path string, bom bool) (*dataprocessing.Table, error) {
	if s.settings.Privacy.AggregationOnly {
		return nil, apperrors.NewValidationError("row-level export is disabled in aggregation-only privacy mode").
			WithContext("path", path)
	}

	table, err := s.Process(ctx, sources)
	if err != nil {
		return nil, err
	}
	if err := exporter.New(s.logger, bom).Export(path, table); err != nil {
		return nil, err
	}
	return table, nil
}

// Generate runs the dashboard pipeline for req. The returned run is filled in
// even when err is non-nil, except when the request itself is invalid.
func (s *DashboardService) Generate(ctx context.Context, req GenerateRequest) (domain.GenerationRun, error) {
	region := req.Region
	if region == "" {
		region = s.settings.AWS.Region
	}

	deps := []dashboard.Option{dashboard.WithLogger(s.logger), dashboard.WithDiscovery(s.discovery)}
	if s.history != nil {
		deps = append(deps, dashboard.WithHistory(s.history))
	}
	deps = append(deps, s.deps...)

	d, err := dashboard.New(dashboard.Options{
		Region:       region,
		DataSources:  req.Sources,
		OutputBucket: req.OutputBucket,
		Settings:     s.settings,
	}, deps...)
	if err != nil {
		return domain.GenerationRun{}, err
	}
	return d.Run(ctx)
}

// History lists past runs, newest first. Without a run store it is always
// empty.
func (s *DashboardService) History(ctx context.Context, limit int) ([]domain.GenerationRun, error) {
	if s.history == nil {
		return []domain.GenerationRun{}, nil
	}
	return s.history.List(ctx, limit)
}

// Run returns one past run. Without a run store every id is NOT_FOUND.
func (s *DashboardService) Run(ctx context.Context, id string) (domain.GenerationRun, error) {
	if s.history == nil {
		return domain.GenerationRun{}, apperrors.NewNotFoundError("run "+id).WithContext("run_id", id)
	}
	return s.history.Get(ctx, id)
}
