package analyzer

import (
	"context"

	"golang.org/x/sync/errgroup"

	"linksafety/verdict"
)

// BatchResult pairs one input URL with its verdict or its failure. It is an
// in-process type; the HTTP layer maps it to its own wire shape.
type BatchResult struct {
	URL     string
	Verdict verdict.FinalVerdict
	Err     error
}

// AnalyzeBatch analyzes urls with at most workers analyses in flight. Results
// are returned in input order. Cancellation is cooperative: once ctx is done
// no new unit starts; units already running finish their lookup.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, urls []string, workers int) []BatchResult {
	if workers < 1 {
		workers = 1
	}

	results := make([]BatchResult, len(urls))
	g := new(errgroup.Group)
	g.SetLimit(workers)

	for i, u := range urls {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(urls); j++ {
				results[j] = BatchResult{URL: urls[j], Err: err}
			}
			break
		}
		i, u := i, u
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = BatchResult{URL: u, Err: err}
				return nil
			}
			v, err := a.Analyze(ctx, u)
			results[i] = BatchResult{URL: u, Verdict: v, Err: err}
			return nil
		})
	}

	_ = g.Wait()
	return results
}
