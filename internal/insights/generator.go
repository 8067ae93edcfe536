package insights

import (
	"context"
	"log/slog"

	"genaidash/internal/config"
	"genaidash/pkg/contracts/domain"
)

// Generator produces insights from a summary of the processed data
type Generator interface {
	Generate(ctx context.Context, summary domain.DatasetSummary) (domain.Insights, error)
}

// GeneratorFunc adapts a function to Generator
type GeneratorFunc func(ctx context.Context, summary domain.DatasetSummary) (domain.Insights, error)

// Generate implements Generator
func (f GeneratorFunc) Generate(ctx context.Context, summary domain.DatasetSummary) (domain.Insights, error) {
	return f(ctx, summary)
}

// PlaceholderGenerator stands in for the managed inference service. It
// records the model parameters it would use and always returns empty
// insights.
type PlaceholderGenerator struct {
	model   config.BedrockConfig
	enabled bool
	logger  *slog.Logger
}

// NewPlaceholderGenerator creates a generator bound to the given settings
func NewPlaceholderGenerator(s config.Settings, logger *slog.Logger) *PlaceholderGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaceholderGenerator{
		model:   s.Bedrock,
		enabled: s.Runtime.EnableBedrock,
		logger:  logger.With(slog.String("component", "insights")),
	}
}

// Generate implements Generator
func (g *PlaceholderGenerator) Generate(ctx context.Context, summary domain.DatasetSummary) (domain.Insights, error) {
	if err := ctx.Err(); err != nil {
		return domain.Insights{}, err
	}

	if !g.enabled {
		g.logger.DebugContext(ctx, "inference disabled, returning empty insights")
		return domain.EmptyInsights(), nil
	}

	g.logger.DebugContext(ctx, "insights requested",
		slog.String("model_id", g.model.ModelID),
		slog.Float64("temperature", g.model.Temperature),
		slog.Int("max_tokens", g.model.MaxTokens),
		slog.Int("rows", summary.Rows),
		slog.Int("columns", len(summary.Columns)))

	return domain.EmptyInsights(), nil
}
