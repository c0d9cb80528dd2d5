package sampler

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sandrolain/scoreplot/pkg/types"
)

// minChunk is the smallest number of points handed to one worker.
const minChunk = 256

// SampleParallel is Sample with the range divided into disjoint index
// blocks evaluated concurrently. The result is identical to Sample: the same
// x grid, the same order and the same bounds.
//
// fn must be safe for concurrent use, which holds for every compiled
// expression. Cancelling ctx stops outstanding blocks and returns ctx.Err().
func SampleParallel(ctx context.Context, fn types.Func, start, end float64, opts ...Option) (*types.SampleSet, error) {
	o := buildOptions(opts)
	n, err := prepare(start, end, o)
	if err != nil {
		return nil, err
	}

	set := &types.SampleSet{Points: make([]types.Point, n)}
	chunk := (n + o.Workers - 1) / o.Workers
	if chunk < minChunk {
		chunk = minChunk
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(o.Workers)
	for first := 0; first < n; first += chunk {
		last := min(first+chunk, n)
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			fill(fn, set.Points[first:last], first, start, o.Step)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set.MinY, set.MaxY = Bounds(set.Points, o.SeededBounds)
	o.Logger.Debug("range sampled in parallel",
		"start", start, "end", end, "step", o.Step,
		"points", n, "workers", o.Workers, "minY", set.MinY, "maxY", set.MaxY)
	return set, nil
}
