package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Concurrent runs action for each element in its own goroutine, at most limit
// at a time when limit > 0. It waits for all of them and returns the first
// error. The context passed to action is cancelled on that first error.
func Concurrent[T any](ctx context.Context, in []T, limit int, action func(context.Context, T) error) error {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, value := range in {
		g.Go(func() error {
			return action(ctx, value)
		})
	}
	return g.Wait()
}

// ParallelMap applies mapFn to each element concurrently, preserving order.
// On error the results gathered so far are returned with the first error.
func ParallelMap[T any, R any](ctx context.Context, in []T, workers int, mapFn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(in))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for idx, value := range in {
		g.Go(func() error {
			r, err := mapFn(ctx, value)
			if err != nil {
				return err
			}
			out[idx] = r
			return nil
		})
	}
	err := g.Wait()
	return out, err
}
