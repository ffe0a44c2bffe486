package verify

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"cgreplay/internal/reference"
)

// CheckAll checks every record against videos using up to workers goroutines.
// Reports come back in record order. Non-positive workers uses GOMAXPROCS.
// The first error cancels the remaining checks.
func CheckAll(ctx context.Context, records []reference.Record, videos []string, count, workers int) ([]Report, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	reports := make([]Report, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, rec := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := Check(rec, videos, count)
			if err != nil {
				return fmt.Errorf("verify %s: %w", rec.UserID, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
