package tokenizer

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of counting one file.
type Result struct {
	Path   string
	Tokens int
	Err    error
}

// CountFiles counts every path through cache using at most workers goroutines.
// Results are returned in the order of paths. Per-file failures are reported in
// Result.Err; the returned error is non-nil only when ctx was cancelled, in
// which case uncounted paths carry the context error.
func CountFiles(ctx context.Context, cache *Cache, paths []string, workers int) ([]Result, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]Result, len(paths))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for index, path := range paths {
		results[index].Path = path
		if groupCtx.Err() != nil {
			results[index].Err = groupCtx.Err()
			continue
		}
		group.Go(func() error {
			if contextErr := groupCtx.Err(); contextErr != nil {
				results[index].Err = contextErr
				return nil
			}
			tokens, countErr := cache.Count(path)
			results[index].Tokens = tokens
			results[index].Err = countErr
			return nil
		})
	}

	_ = group.Wait()
	return results, ctx.Err()
}
