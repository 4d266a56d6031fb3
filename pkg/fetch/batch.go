package fetch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const maxParallelDownloads = 5

// Result is the outcome of one download of a FetchAll call.
type Result struct {
	URL  string
	Body []byte
	Err  error // non-fatal; the other downloads are unaffected
}

// FetchAll downloads urls through g with at most five requests in flight.
// Results are returned in the order of urls. A failed download never cancels
// the others.
func FetchAll(ctx context.Context, g Getter, urls []string) []Result {
	results := make([]Result, len(urls))

	var eg errgroup.Group
	eg.SetLimit(maxParallelDownloads)

	for i, u := range urls {
		i, u := i, u
		results[i].URL = u
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Body, results[i].Err = g.Get(ctx, u)
			return nil
		})
	}
	_ = eg.Wait()

	return results
}
