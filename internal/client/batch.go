package client

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome of one request of a batch.
type BatchResult struct {
	Response *Response
	Err      error
}

// Batch runs independent requests concurrently, at most Config.BatchLimit at
// a time. Results are in request order; one failure does not stop the others.
func (c *Client) Batch(ctx context.Context, reqs []*Request) []BatchResult {
	results := make([]BatchResult, len(reqs))

	var g errgroup.Group
	g.SetLimit(c.cfg.BatchLimit)
	for i, req := range reqs {
		g.Go(func() error {
			resp, err := c.Request(ctx, req)
			results[i] = BatchResult{Response: resp, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
