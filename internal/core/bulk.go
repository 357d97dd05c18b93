package core

import (
	"context"
	"sync"
)

const defaultConcurrency = 4

// BulkFetch fetches several datasets in parallel. Each query appears in
// exactly one of the returned maps.
func BulkFetch(ctx context.Context, c Catalog, queries []Query) (map[Query]*Result, map[Query]error) {
	return BulkFetchWithConcurrency(ctx, c, queries, defaultConcurrency)
}

// BulkFetchWithConcurrency fetches datasets with a custom concurrency limit.
// Duplicate queries are fetched once.
func BulkFetchWithConcurrency(ctx context.Context, c Catalog, queries []Query, concurrency int) (map[Query]*Result, map[Query]error) {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make(map[Query]*Result)
	errs := make(map[Query]error)
	var mu sync.Mutex
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	seen := make(map[Query]bool, len(queries))
	for _, q := range queries {
		if seen[q] {
			continue
		}
		seen[q] = true

		wg.Add(1)
		go func(q Query) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				errs[q] = ctx.Err()
				mu.Unlock()
				return
			}

			res, err := c.Fetch(ctx, q)
			mu.Lock()
			if err != nil {
				errs[q] = err
			} else {
				results[q] = res
			}
			mu.Unlock()
		}(q)
	}

	wg.Wait()
	return results, errs
}
