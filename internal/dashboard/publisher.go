package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"genaidash/internal/config"
	"genaidash/pkg/contracts/domain"
)

// PlaceholderURL is returned by PlaceholderPublisher for every dashboard
const PlaceholderURL = "https://quicksight.aws.amazon.com/dashboard"

// PublishRequest carries everything a dashboard needs
type PublishRequest struct {
	RunID        string
	Region       string
	OutputBucket string
	Summary      domain.DatasetSummary
	Insights     domain.Insights
}

// Publisher turns processed data and insights into a dashboard and returns
// its URL
type Publisher interface {
	Publish(ctx context.Context, req PublishRequest) (string, error)
}

// PlaceholderPublisher stands in for the managed BI service and always
// returns PlaceholderURL.
type PlaceholderPublisher struct {
	quicksight config.QuickSightConfig
	logger     *slog.Logger
}

// NewPlaceholderPublisher creates a publisher bound to the given settings
func NewPlaceholderPublisher(s config.Settings, logger *slog.Logger) *PlaceholderPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaceholderPublisher{
		quicksight: s.QuickSight,
		logger:     logger.With(slog.String("component", "publisher")),
	}
}

// Publish implements Publisher
func (p *PlaceholderPublisher) Publish(ctx context.Context, req PublishRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p.logger.DebugContext(ctx, "dashboard requested",
		slog.String("dashboard_id", DashboardID(req.RunID)),
		slog.String("template_arn", TemplateARN(req.Region, p.quicksight.AccountID, p.quicksight.TemplateName)),
		slog.String("output_bucket", req.OutputBucket),
		slog.Int("rows", req.Summary.Rows))

	return PlaceholderURL, nil
}

// TemplateARN builds the ARN of a dashboard template
func TemplateARN(region, accountID, template string) string {
	return fmt.Sprintf("arn:aws:quicksight:%s:%s:template/%s", region, accountID, template)
}

// DashboardID derives a dashboard id from an analysis or run id
func DashboardID(id string) string {
	return "sales-dashboard-" + id
}
