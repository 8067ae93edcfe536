package dataprocessing

import (
	"context"
	"log/slog"
	"math"

	"genaidash/pkg/contracts/domain"
)

// Summarizer condenses a processed table into per-column statistics, the
// input handed to insight generation.
type Summarizer struct {
	logger        *slog.Logger
	maxExampleLen int
	omitExamples  bool
}

// SummarizerConfig holds configuration options for the Summarizer.
type SummarizerConfig struct {
	MaxExampleLength int  // Example values longer than this are cut; 0 means 64
	OmitExamples     bool // Leave Example empty so no cell value is disclosed
}

// NewSummarizer creates a new table summarizer with the given configuration.
func NewSummarizer(logger *slog.Logger, config SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxExampleLength <= 0 {
		config.MaxExampleLength = 64
	}
	return &Summarizer{
		logger:        logger,
		maxExampleLen: config.MaxExampleLength,
		omitExamples:  config.OmitExamples,
	}
}

// Summarize describes every column of t in column order
func (s *Summarizer) Summarize(ctx context.Context, t *Table) domain.DatasetSummary {
	summary := domain.DatasetSummary{Columns: []domain.ColumnSummary{}}
	if t == nil {
		return summary
	}
	summary.Rows = t.Len()

	for c, name := range t.Columns {
		summary.Columns = append(summary.Columns, s.column(t, c, name))
	}

	s.logger.DebugContext(ctx, "table summarized",
		slog.Int("rows", summary.Rows),
		slog.Int("columns", len(summary.Columns)))
	return summary
}

func (s *Summarizer) column(t *Table, c int, name string) domain.ColumnSummary {
	cs := domain.ColumnSummary{Name: name, Kind: t.Kinds[c]}
	distinct := make(map[string]struct{})

	var sum float64
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range t.Rows {
		v := row[c]
		if v.Null {
			cs.Nulls++
			continue
		}
		cs.Count++
		if cs.Example == "" && !s.omitExamples {
			cs.Example = truncate(v.Raw, s.maxExampleLen)
		}
		if cs.Kind == domain.ColumnKindNumeric {
			sum += v.Num
			lo = math.Min(lo, v.Num)
			hi = math.Max(hi, v.Num)
			distinct[rowKey(t.Kinds[c:c+1], row[c:c+1])] = struct{}{}
		} else {
			distinct[v.Raw] = struct{}{}
		}
	}
	cs.Unique = len(distinct)

	if cs.Kind == domain.ColumnKindNumeric && cs.Count > 0 {
		mean := sum / float64(cs.Count)
		cs.Mean, cs.Min, cs.Max = &mean, &lo, &hi
	}
	return cs
}

// Summarize is a convenience wrapper using the default configuration
func Summarize(t *Table) domain.DatasetSummary {
	return NewSummarizer(slog.New(slog.DiscardHandler), SummarizerConfig{}).Summarize(context.Background(), t)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
