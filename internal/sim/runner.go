package sim

import (
	"context"
	"fmt"

	"github.com/zeusync/foresight/internal/core/observability/log"
	"golang.org/x/sync/errgroup"
)

// RunAll runs each scenario in its own world on its own goroutine, at most
// parallel at a time (unlimited when parallel <= 0). Worlds share nothing, so
// each engine stays single-threaded. The first failure cancels the rest.
// Reports are returned in scenario order.
func RunAll(ctx context.Context, scenarios []*Scenario, parallel int, logger log.Log) ([]Report, error) {
	if logger == nil {
		logger = log.NewNop()
	}
	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}

	reports := make([]Report, len(scenarios))
	for i, s := range scenarios {
		i, s := i, s
		g.Go(func() error {
			w, err := NewWorld(ctx, s, WithLogger(logger))
			if err != nil {
				return fmt.Errorf("scenario %s: %w", s.Name, err)
			}
			defer func() { _ = w.Close(context.Background()) }()

			r, err := w.Run(ctx)
			reports[i] = r
			if err != nil {
				return fmt.Errorf("scenario %s: %w", s.Name, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return reports, err
	}
	return reports, nil
}
