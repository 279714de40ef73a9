package parallelfor

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Func runs body(i) for every i in [0, n) and reports the first error
// encountered. Implementations must call body exactly once per index.
// body itself must only write to memory disjoint across indices (e.g. its
// own slot n of a pre-sized buffer); it must never accumulate into a
// shared variable without external synchronization.
type Func func(n int, body func(i int) error) error

// Sequential runs body in index order on the calling goroutine. It is the
// zero-dependency default and the only mode that guarantees a stable
// execution order across runs (useful for the determinism tests in
// gradient and affinity).
func Sequential(n int, body func(i int) error) error {
	for i := 0; i < n; i++ {
		if err := body(i); err != nil {
			return err
		}
	}

	return nil
}

// NewPool returns a Func that fans body out across up to workers goroutines
// using an errgroup bounded by a counting semaphore. workers <= 0 is
// treated as 1 (sequential-equivalent concurrency, still goroutine-based so
// callers exercise the same code path in tests).
//
// The returned Func does not itself guarantee any particular completion
// order; per spec.md §5, callers that need ordered reduction (e.g. Q_sum)
// must write into a size-N buffer and reduce it serially afterward — NewPool
// only parallelizes the independent per-index work, never the reduction.
func NewPool(workers int) Func {
	if workers <= 0 {
		workers = 1
	}
	w := int64(workers)

	return func(n int, body func(i int) error) error {
		if n == 0 {
			return nil
		}

		sem := semaphore.NewWeighted(w)
		g, ctx := errgroup.WithContext(context.Background())

		for i := 0; i < n; i++ {
			i := i
			if err := sem.Acquire(ctx, 1); err != nil {
				break
			}
			g.Go(func() error {
				defer sem.Release(1)
				return body(i)
			})
		}

		return g.Wait()
	}
}
