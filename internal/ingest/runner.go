package ingest

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Runner drives the pipeline on a fixed interval across every registered
// source. One source failing never stops the others; the pipeline records
// failures in the ledger itself.
type Runner struct {
	pipeline *Pipeline
	sources  []string
	interval time.Duration
	logger   *zap.Logger
}

func NewRunner(pipeline *Pipeline, sources []string, interval time.Duration, logger *zap.Logger) *Runner {
	return &Runner{
		pipeline: pipeline,
		sources:  sources,
		interval: interval,
		logger:   logger,
	}
}

// Run polls until ctx is canceled, starting with an immediate pass.
func (r *Runner) Run(ctx context.Context) {
	r.logger.Info("ingest runner started",
		zap.Strings("sources", r.sources),
		zap.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.pass(ctx)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("ingest runner stopped")
			return
		case <-ticker.C:
			r.pass(ctx)
		}
	}
}

// pass runs every source concurrently and waits for all of them.
func (r *Runner) pass(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	for _, source := range r.sources {
		source := source
		g.Go(func() error {
			if _, err := r.pipeline.Run(gctx, source); err != nil {
				r.logger.Error("ingest run not recorded", zap.String("source", source), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
}
