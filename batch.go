package mfbench

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds QueryAll concurrency when no worker count is
// given.
const DefaultWorkers = 4

// QueryAll evaluates many configurations concurrently with the same
// query options, preserving input order in the output. The benchmark
// is loaded up front so workers only read shared state. The first
// failure cancels the remaining work.
func QueryAll(ctx context.Context, b Benchmark, cfgs []Config, workers int, opts ...QueryOption) ([]Result, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if err := b.Load(); err != nil {
		return nil, fmt.Errorf("loading %s: %w", b.Name(), err)
	}

	results := make([]Result, len(cfgs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, cfg := range cfgs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := b.Query(cfg, opts...)
			if err != nil {
				return fmt.Errorf("config %s: %w", cfg.Key(), err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
