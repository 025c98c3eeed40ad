package audit

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/smartpass/internal/model"
)

// DefaultConcurrency is the number of digests audited at once.
const DefaultConcurrency = 4

// BatchProcessor audits many digests concurrently.
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline for each digest.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent audits.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
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
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch audits every target and returns the reports in input order.
//
// A failing audit is recorded in its report and does not stop the others.
// When ctx is cancelled, targets that never started have a nil report and
// the returned error is ctx.Err().
//
// Design decision: We preallocate one result slot per target and let each
// worker write only its own index rather than collecting reports through
// a mutex or channel because:
//  1. Reports come back in input order without a sort
//  2. No two goroutines write the same slot, so no lock is needed; the
//     errgroup Wait gives the happens-before edge for the final read
//  3. A target that never started is visible as a nil slot
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, targets []Target) ([]*model.AuditReport, error) {
	bp.logger.Info("starting audit",
		"total_digests", len(targets),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	// each goroutine writes only its own index
	reports := make([]*model.AuditReport, len(targets))
	err := bp.run(ctx, targets, func(report *model.AuditReport, index int) {
		reports[index] = report
	})

	bp.logger.Info("audit complete",
		"total_digests", len(targets),
		"elapsed", time.Since(startTime),
	)
	return reports, err
}

// ProcessBatchWithCallback audits every target and calls callback as each
// one finishes. callback runs on the worker goroutine and must be safe for
// concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	targets []Target,
	callback func(report *model.AuditReport, index int),
) error {
	return bp.run(ctx, targets, callback)
}

func (bp *BatchProcessor) run(ctx context.Context, targets []Target, done func(*model.AuditReport, int)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			report := model.NewAuditReport(target.Digest)
			report.Label = target.Label

			if err := bp.pipelineFactory().Execute(ctx, report); err != nil {
				bp.logger.Warn("audit failed",
					"digest", target.Digest,
					"index", i+1,
					"error", err,
				)
			} else {
				bp.logger.Debug("audit finished",
					"digest", report.Digest,
					"index", i+1,
					"cracked", report.Cracked,
				)
			}

			done(report, i)

			// the error lives in the report; other digests keep going
			return nil
		})
	}

	return g.Wait()
}
