package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"genaidash/internal/config"
	"genaidash/internal/dataprocessing"
	apperrors "genaidash/internal/errors"
	"genaidash/internal/files"
	"genaidash/internal/infrastructure"
	"genaidash/internal/insights"
	"genaidash/pkg/contracts/domain"
)

// Stage names used for spans and metrics
const (
	StageResolve  = "resolve"
	StageProcess  = "process"
	StageInsights = "insights"
	StagePublish  = "publish"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Options describes one dashboard. Region is required.
type Options struct {
	Region       string   `validate:"required"`
	DataSources  []string `validate:"dive,required"`
	OutputBucket string
	Settings     config.Settings
}

// DataProcessor loads and cleans data sources
type DataProcessor interface {
	Process(ctx context.Context, sources []string) (*dataprocessing.Table, error)
}

// RunRecorder stores finished runs
type RunRecorder interface {
	Record(ctx context.Context, run domain.GenerationRun) error
}

// Dashboard sequences data processing, insight generation and dashboard
// creation. Each Generate call is independent.
type Dashboard struct {
	opts Options

	logger    *slog.Logger
	discovery *files.Discovery
	processor DataProcessor
	transform dataprocessing.TransformFunc
	insights  insights.Generator
	publisher Publisher
	history   RunRecorder
	tracer    trace.Tracer
	metrics   *infrastructure.BusinessMetrics
	summarize *dataprocessing.Summarizer
}

// Option configures the collaborators of a Dashboard
type Option func(*Dashboard)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dashboard) { d.logger = logger }
}

// WithProcessor replaces the data processor
func WithProcessor(p DataProcessor) Option {
	return func(d *Dashboard) { d.processor = p }
}

// WithTransform adds a transform that runs after cleaning. Privacy rules are
// applied before cleaning. It is ignored when WithProcessor is also given.
func WithTransform(fn dataprocessing.TransformFunc) Option {
	return func(d *Dashboard) { d.transform = fn }
}

// WithInsights replaces the insight generator
func WithInsights(g insights.Generator) Option {
	return func(d *Dashboard) { d.insights = g }
}

// WithPublisher replaces the dashboard publisher
func WithPublisher(p Publisher) Option {
	return func(d *Dashboard) { d.publisher = p }
}

// WithHistory records every run in r
func WithHistory(r RunRecorder) Option {
	return func(d *Dashboard) { d.history = r }
}

// WithDiscovery sets how data source patterns are expanded
func WithDiscovery(disc *files.Discovery) Option {
	return func(d *Dashboard) { d.discovery = disc }
}

// WithTelemetry sets the tracer and metrics used when benchmarking is on
func WithTelemetry(tracer trace.Tracer, metrics *infrastructure.BusinessMetrics) Option {
	return func(d *Dashboard) {
		d.tracer = tracer
		d.metrics = metrics
	}
}

// New validates opts and wires the default collaborators. An empty region is
// a CONFIG error and nothing is logged.
func New(opts Options, deps ...Option) (*Dashboard, error) {
	if err := validate.Struct(opts); err != nil {
		return nil, configError(err)
	}

	d := &Dashboard{opts: opts}
	for _, dep := range deps {
		dep(d)
	}

	base := d.logger
	if base == nil {
		base = infrastructure.GetLogger()
	}
	d.logger = infrastructure.WithComponent(base, "dashboard")
	if d.discovery == nil {
		d.discovery = files.NewDiscovery("")
	}
	if d.processor == nil {
		d.processor = dataprocessing.NewProcessor(
			dataprocessing.WithLogger(base),
			dataprocessing.WithPreClean(dataprocessing.PrivacyTransform(opts.Settings.Privacy)),
			dataprocessing.WithTransform(d.transform),
		)
	}
	if d.insights == nil {
		d.insights = insights.NewPlaceholderGenerator(opts.Settings, base)
	}
	if d.publisher == nil {
		d.publisher = NewPlaceholderPublisher(opts.Settings, base)
	}
	if d.tracer == nil {
		d.tracer = otel.Tracer(infrastructure.ServiceName)
	}
	d.summarize = dataprocessing.NewSummarizer(d.logger, dataprocessing.SummarizerConfig{
		OmitExamples: opts.Settings.Privacy.AggregationOnly,
	})

	d.logger.Info("Configuration validated for region", slog.String("region", opts.Region))
	return d, nil
}

// Options returns the validated options
func (d *Dashboard) Options() Options {
	return d.opts
}

// Generate runs the pipeline and returns the dashboard URL. Failures are
// logged once and returned unchanged.
func (d *Dashboard) Generate(ctx context.Context) (string, error) {
	run, err := d.Run(ctx)
	if err != nil {
		return "", err
	}
	return run.URL, nil
}

// Run is Generate returning the full run record
func (d *Dashboard) Run(ctx context.Context) (domain.GenerationRun, error) {
	run := domain.GenerationRun{
		ID:           uuid.NewString(),
		Region:       d.opts.Region,
		Sources:      append([]string{}, d.opts.DataSources...),
		OutputBucket: d.opts.OutputBucket,
		StartedAt:    time.Now().UTC(),
	}

	ctx = infrastructure.EnsureTraceID(ctx)
	logger := d.logger.With(slog.String("run_id", run.ID))

	if d.benchmarking() {
		var span trace.Span
		ctx, span = d.tracer.Start(ctx, "dashboard.run", trace.WithAttributes(
			attribute.String("run_id", run.ID),
			attribute.String("region", run.Region),
		))
		defer span.End()
		if id := infrastructure.TraceIDFromContext(ctx); id != "" {
			logger = logger.With(slog.String("otel_trace_id", id))
		}
	}

	logger.InfoContext(ctx, "Starting dashboard generation",
		slog.String("region", run.Region),
		slog.Int("sources", len(run.Sources)))

	url, rows, err := d.pipeline(ctx, logger, run.ID)

	run.Duration = time.Since(run.StartedAt)
	run.Rows = rows
	run.URL = url
	run.Status = domain.RunStatusSucceeded
	if err != nil {
		run.Status = domain.RunStatusFailed
		run.Error = err.Error()
		run.URL = ""
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Dashboard generation failed",
			slog.String("error_type", string(apperrors.TypeOf(err))))
	} else {
		logger.InfoContext(ctx, "Dashboard generated successfully",
			slog.String("url", url),
			slog.Int("rows", rows),
			slog.Duration("duration", run.Duration))
	}

	if d.benchmarking() {
		infrastructure.RecordGenerationMetrics(ctx, d.metrics, run.Region, rows, run.Duration, err)
	}
	d.record(ctx, logger, run)

	return run, err
}

func (d *Dashboard) pipeline(ctx context.Context, logger *slog.Logger, runID string) (string, int, error) {
	var (
		sources []string
		table   *dataprocessing.Table
		summary domain.DatasetSummary
		found   domain.Insights
		url     string
	)

	err := d.stage(ctx, logger, StageResolve, func(ctx context.Context) error {
		var err error
		sources, err = d.discovery.Resolve(d.opts.DataSources)
		return err
	})
	if err != nil {
		return "", 0, err
	}

	logger.InfoContext(ctx, "Processing data sources", slog.Int("sources", len(sources)))
	err = d.stage(ctx, logger, StageProcess, func(ctx context.Context) error {
		var err error
		table, err = d.processor.Process(ctx, sources)
		return err
	})
	if err != nil {
		return "", 0, err
	}
	rows := table.Len()

	logger.InfoContext(ctx, "Generating insights")
	err = d.stage(ctx, logger, StageInsights, func(ctx context.Context) error {
		summary = d.summarize.Summarize(ctx, table)
		var err error
		found, err = d.insights.Generate(ctx, summary)
		return err
	})
	if err != nil {
		return "", rows, err
	}

	logger.InfoContext(ctx, "Creating dashboard")
	err = d.stage(ctx, logger, StagePublish, func(ctx context.Context) error {
		var err error
		url, err = d.publisher.Publish(ctx, PublishRequest{
			RunID:        runID,
			Region:       d.opts.Region,
			OutputBucket: d.opts.OutputBucket,
			Summary:      summary,
			Insights:     found,
		})
		return err
	})
	if err != nil {
		return "", rows, err
	}

	return url, rows, nil
}

// stage runs fn, inside a span with its duration recorded when
// benchmarking is enabled
func (d *Dashboard) stage(ctx context.Context, logger *slog.Logger, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !d.benchmarking() {
		return fn(ctx)
	}

	ctx, span := d.tracer.Start(ctx, "dashboard."+name,
		trace.WithAttributes(attribute.String("stage", name)))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	if err != nil {
		infrastructure.RecordError(ctx, err)
	}
	infrastructure.RecordStageMetrics(ctx, d.metrics, name, elapsed, err)
	logger.DebugContext(ctx, "stage completed",
		slog.String("stage", name),
		slog.Duration("duration", elapsed),
		slog.Bool("success", err == nil))
	return err
}

func (d *Dashboard) benchmarking() bool {
	return d.opts.Settings.Runtime.EnableBenchmarking
}

func (d *Dashboard) record(ctx context.Context, logger *slog.Logger, run domain.GenerationRun) {
	if d.history == nil {
		return
	}
	// The run outcome stands even when the ledger write fails.
	if err := d.history.Record(context.WithoutCancel(ctx), run); err != nil {
		logger.WarnContext(ctx, "failed to record run", slog.String("error", err.Error()))
	}
}

func configError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.NewConfigError("invalid dashboard options", err)
	}

	fe := verrs[0]
	msg := fmt.Sprintf("%s failed %q validation", fe.Namespace(), fe.Tag())
	if fe.Field() == "Region" && fe.Tag() == "required" {
		msg = "AWS region must be specified"
	}
	return apperrors.NewConfigError(msg, err).WithContext("field", fe.Field())
}
