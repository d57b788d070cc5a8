package simulation

import (
	"context"

	"golang.org/x/sync/errgroup"

	"syncperf/internal/telemetry"
)

// AnalyzeDirs analyzes every directory with at most workers running at once.
// Results come back in input order. A failing directory only sets Err on its
// own Analysis; the returned error is non-nil only if ctx was cancelled.
func (a *Analyzer) AnalyzeDirs(ctx context.Context, dirs []string, workers int) ([]*Analysis, error) {
	if workers <= 0 {
		workers = 1
	}

	results := make([]*Analysis, len(dirs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, dir := range dirs {
		i, dir := i, dir
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = &Analysis{Dir: dir, Err: err}
				return err
			}
			res, err := a.AnalyzeDir(dir)
			if err != nil {
				telemetry.LogWarn("Analysis failed", "dir", dir, "error", err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Failed returns the analyses that carry an error.
func Failed(results []*Analysis) []*Analysis {
	var out []*Analysis
	for _, r := range results {
		if r != nil && r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
