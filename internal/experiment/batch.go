package experiment

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/physim/internal/config"
)

// RunBatch runs independent scenes concurrently on at most GOMAXPROCS
// workers. Each scene owns its engine, so nothing is shared between runs.
// The first failure cancels the remaining scenes.
func RunBatch(ctx context.Context, cfgs []*config.Config, log *zap.Logger) ([]*Result, error) {
	results := make([]*Result, len(cfgs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, cfg := range cfgs {
		i, cfg := i, cfg
		g.Go(func() error {
			exp, err := New(cfg, log)
			if err != nil {
				return err
			}
			for _, m := range NewRegistry().DefaultMetrics() {
				exp.AddMetric(m)
			}
			results[i], err = exp.Run(ctx, cfg.Frames)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
