package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/a11yscan/internal/model"
)

// DefaultConcurrency is the number of targets audited at once when no
// concurrency is configured.
const DefaultConcurrency = 4

// PipelineFactory builds the pipeline for one target. Taking the target
// lets callers apply per-site settings such as cookies or headers.
type PipelineFactory func(target string) *Pipeline

// BatchProcessor audits multiple targets concurrently.
// It uses errgroup to manage goroutines and respect concurrency limits.
type BatchProcessor struct {
	factory     PipelineFactory
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent audits.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor. The factory is called
// once per target so pipeline state doesn't leak between targets.
func NewBatchProcessor(factory PipelineFactory, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		factory:     factory,
		concurrency: DefaultConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(bp)
	}
	return bp
}

// ProcessBatch audits the targets and returns one report per target in
// input order, including the reports of targets that failed.
//
// A failing target never stops the others. The returned error is non-nil
// only when ctx ends; targets not started by then get a report carrying
// the context error.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, targets []string) ([]*model.AuditReport, error) {
	bp.logger.Info("starting batch",
		"targets", len(targets),
		"concurrency", bp.concurrency,
	)
	start := time.Now()

	// Each goroutine writes only its own index.
	results := make([]*model.AuditReport, len(targets))

	var g errgroup.Group
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		report := model.NewAuditReport(target)
		results[i] = report

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				report.SetError(err)
				return nil
			}

			bp.logger.Debug("auditing target", "target", target, "index", i+1, "total", len(targets))
			if err := bp.factory(target).Execute(ctx, report); err != nil {
				bp.logger.Warn("audit failed", "target", target, "error", err)
			}
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // goroutines record errors on their report

	bp.logger.Info("batch complete",
		"targets", len(targets),
		"elapsed", time.Since(start),
	)
	return results, ctx.Err()
}
