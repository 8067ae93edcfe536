package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"genaidash/internal/validation"
)

// SourceValidator checks data sources before anything is loaded
type SourceValidator interface {
	ValidateDataSources(sources []string) error
}

// Processor validates, loads, concatenates, cleans and transforms tabular
// sources into one table. It holds no per-call state and may be reused.
type Processor struct {
	logger    *slog.Logger
	validator SourceValidator
	clean     CleanOptions
	preClean  TransformFunc
	transform TransformFunc
	loaderFor func(path string) Loader
}

// Option configures a Processor
type Option func(*Processor)

// WithCleanOptions replaces the default cleaning toggles
func WithCleanOptions(opts CleanOptions) Option {
	return func(p *Processor) { p.clean = opts }
}

// WithPreClean sets a transform applied to the concatenated table before
// cleaning, so columns it drops or rewrites take no part in deduplication.
// Nil keeps the identity.
func WithPreClean(fn TransformFunc) Option {
	return func(p *Processor) {
		if fn != nil {
			p.preClean = fn
		}
	}
}

// WithTransform sets the post-cleaning transform. Nil keeps the identity.
func WithTransform(fn TransformFunc) Option {
	return func(p *Processor) {
		if fn != nil {
			p.transform = fn
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithValidator replaces the file validator
func WithValidator(v SourceValidator) Option {
	return func(p *Processor) {
		if v != nil {
			p.validator = v
		}
	}
}

// NewProcessor creates a processor with both cleaning steps enabled and an
// identity transform.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		logger:    slog.Default(),
		clean:     DefaultCleanOptions(),
		preClean:  Identity,
		transform: Identity,
		loaderFor: LoaderFor,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(slog.String("component", "data_processor"))
	if p.validator == nil {
		p.validator = validation.NewFileValidator(p.logger)
	}
	return p
}

// CleanOptions returns the effective cleaning toggles
func (p *Processor) CleanOptions() CleanOptions {
	return p.clean
}

// ValidateDataSources fails when sources is empty or any entry is missing or
// unreadable. No file is parsed.
func (p *Processor) ValidateDataSources(sources []string) error {
	return p.validator.ValidateDataSources(sources)
}

// Process runs the full pipeline. Every source is validated before any is
// loaded, and any failure aborts with no partial table.
func (p *Processor) Process(ctx context.Context, sources []string) (*Table, error) {
	start := time.Now()

	if err := p.ValidateDataSources(sources); err != nil {
		return nil, err
	}

	table, err := p.load(ctx, sources)
	if err != nil {
		return nil, err
	}
	loaded := table.Len()

	table, err = p.preClean(ctx, table)
	if err != nil {
		p.logger.ErrorContext(ctx, "pre-clean transform failed", slog.String("error", err.Error()))
		return nil, err
	}

	stats := Clean(table, p.clean)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	table, err = p.transform(ctx, table)
	if err != nil {
		p.logger.ErrorContext(ctx, "transform failed", slog.String("error", err.Error()))
		return nil, err
	}

	p.logger.InfoContext(ctx, "data processed",
		slog.Int("sources", len(sources)),
		slog.Int("rows_loaded", loaded),
		slog.Int("rows", table.Len()),
		slog.Int("columns", len(table.Columns)),
		slog.Int("duplicates_removed", stats.DuplicatesRemoved),
		slog.Int("nulls_filled", stats.NullsFilled),
		slog.Duration("duration", time.Since(start)))

	return table, nil
}

func (p *Processor) load(ctx context.Context, sources []string) (*Table, error) {
	tables := make([]*Table, 0, len(sources))
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		t, err := p.loaderFor(source).Load(source)
		if err != nil {
			p.logger.ErrorContext(ctx, "failed to load source",
				slog.String("source", source),
				slog.String("error", err.Error()))
			return nil, err
		}
		p.logger.DebugContext(ctx, "loaded source",
			slog.String("source", source),
			slog.Int("rows", t.Len()),
			slog.Int("columns", len(t.Columns)))
		tables = append(tables, t)
	}

	table := Concat(tables...)
	table.InferKinds()
	return table, nil
}
