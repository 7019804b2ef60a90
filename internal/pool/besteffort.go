// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pool

import (
	"context"
	"sync"
)

// BestEffortResult reports what a BestEffortMap call did: how many items
// resolved normally and which ones fell back, with their errors.
type BestEffortResult struct {
	Failed int
	Errors map[int]error // item index → error that triggered the fallback
}

// BestEffortMap applies fn to every item through p, collecting results in
// input order. A failed item does not abort the batch: its result is
// fallback(item) and the failure is recorded in the returned
// BestEffortResult for observability.
func BestEffortMap[T, R any](
	ctx context.Context,
	p *Pool,
	items []T,
	fn func(ctx context.Context, item T) (R, error),
	fallback func(item T) R,
) ([]R, BestEffortResult) {
	results := make([]R, len(items))
	report := BestEffortResult{Errors: make(map[int]error)}

	var wg sync.WaitGroup
	var mu sync.Mutex
	for i, item := range items {
		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()
			v, err := Run(ctx, p, func(ctx context.Context) (R, error) {
				return fn(ctx, item)
			})
			if err != nil {
				mu.Lock()
				report.Failed++
				report.Errors[i] = err
				mu.Unlock()
				results[i] = fallback(item)
				return
			}
			results[i] = v
		}(i, item)
	}
	wg.Wait()

	return results, report
}
