// Package sampler evaluates a compiled formula across a range of inputs.
//
// Sample walks [start, end] at a fixed step (0.2 by default) and records one
// point per step together with the running y bounds. Non-finite results are
// kept as they are; deciding how to clip them is left to whoever draws the
// curve.
//
// # Bounds
//
// By default minY and maxY start at 0 before the first point is seen, so a
// curve that stays above zero still reports minY == 0 (and one below zero
// reports maxY == 0). This matches the plots users already know. Pass
// WithSeededBounds(false) to start the bounds from the first finite sample
// instead. NaN never moves a bound.
//
// # Stepping
//
// The i-th x is computed as start + i*step rather than by repeated addition,
// and the end point is included when it lies within a tiny tolerance of a
// step, so [0, 1] at step 0.2 always yields exactly six points. The last x
// never exceeds end by more than that tolerance.
package sampler

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"github.com/sandrolain/scoreplot/pkg/types"
)

// DefaultStep is the distance between successive x values.
const DefaultStep = 0.2

// DefaultMaxPoints caps the number of points a single call may produce.
const DefaultMaxPoints = 1_000_000

// defaultWorkers is the SampleParallel worker count when none is given.
// Zero means runtime.GOMAXPROCS(0).
var defaultWorkers = 0

// stepTolerance is the fraction of a step by which the range may fall short
// of the next grid point and still include it.
const stepTolerance = 1e-9

// Options configures sampling.
type Options struct {
	// Step is the distance between successive x values. Must be > 0.
	Step float64
	// SeededBounds starts minY/maxY at 0 instead of at the first sample.
	SeededBounds bool
	// MaxPoints rejects ranges that would produce more points.
	MaxPoints int
	// Workers is the number of goroutines used by SampleParallel.
	// Defaults to runtime.GOMAXPROCS(0), or 1 in WebAssembly builds.
	Workers int
	// Logger receives debug records. Defaults to slog.Default().
	Logger *slog.Logger
}

// Option configures sampling.
type Option func(*Options)

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		Step:         DefaultStep,
		SeededBounds: true,
		MaxPoints:    DefaultMaxPoints,
	}
}

// WithStep sets the sampling step.
func WithStep(step float64) Option {
	return func(o *Options) {
		o.Step = step
	}
}

// WithSeededBounds selects zero-seeded (true) or first-sample-seeded (false) bounds.
func WithSeededBounds(seeded bool) Option {
	return func(o *Options) {
		o.SeededBounds = seeded
	}
}

// WithMaxPoints sets the point limit.
func WithMaxPoints(n int) Option {
	return func(o *Options) {
		o.MaxPoints = n
	}
}

// WithWorkers sets the number of goroutines used by SampleParallel.
func WithWorkers(n int) Option {
	return func(o *Options) {
		o.Workers = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxPoints <= 0 {
		o.MaxPoints = DefaultMaxPoints
	}
	if o.Workers <= 0 {
		o.Workers = defaultWorkers
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Count returns the number of points Sample produces for [start, end] at the
// given step. It returns 0 when start > end.
func Count(start, end, step float64) (int, error) {
	if math.IsNaN(step) || math.IsInf(step, 0) || step <= 0 {
		return 0, types.NewError(types.ErrInvalidRange,
			fmt.Sprintf("step must be a positive finite number, got %v", step), -1)
	}
	if math.IsNaN(start) || math.IsInf(start, 0) || math.IsNaN(end) || math.IsInf(end, 0) {
		return 0, types.NewError(types.ErrInvalidRange,
			fmt.Sprintf("range bounds must be finite, got [%v, %v]", start, end), -1)
	}
	if start > end {
		return 0, nil
	}
	steps := math.Floor((end-start)/step + stepTolerance)
	if steps >= math.MaxInt32 {
		return 0, types.NewError(types.ErrInvalidRange,
			fmt.Sprintf("range [%v, %v] at step %v is too large", start, end, step), -1)
	}
	if steps > 0 {
		m := math.Max(math.Abs(start), math.Abs(end))
		if ulp := math.Nextafter(m, math.Inf(1)) - m; step <= ulp {
			return 0, types.NewError(types.ErrInvalidRange,
				fmt.Sprintf("step %v is below the float precision of range [%v, %v]", step, start, end), -1)
		}
	}
	return int(steps) + 1, nil
}

// X returns the i-th x value of a range starting at start.
func X(start, step float64, i int) float64 {
	return start + float64(i)*step
}

// Sample evaluates fn over [start, end].
//
// A start greater than end yields an empty set. Non-finite bounds, a
// non-positive step or a range larger than MaxPoints is an ErrInvalidRange
// error.
func Sample(fn types.Func, start, end float64, opts ...Option) (*types.SampleSet, error) {
	o := buildOptions(opts)
	n, err := prepare(start, end, o)
	if err != nil {
		return nil, err
	}

	set := &types.SampleSet{Points: make([]types.Point, n)}
	fill(fn, set.Points, 0, start, o.Step)
	set.MinY, set.MaxY = Bounds(set.Points, o.SeededBounds)

	o.Logger.Debug("range sampled",
		"start", start, "end", end, "step", o.Step,
		"points", n, "minY", set.MinY, "maxY", set.MaxY)
	return set, nil
}

func prepare(start, end float64, o Options) (int, error) {
	n, err := Count(start, end, o.Step)
	if err != nil {
		return 0, err
	}
	if n > o.MaxPoints {
		return 0, types.NewError(types.ErrInvalidRange,
			fmt.Sprintf("range [%v, %v] at step %v needs %d points, limit is %d",
				start, end, o.Step, n, o.MaxPoints), -1)
	}
	return n, nil
}

// fill evaluates fn for points[k] at grid index first+k.
func fill(fn types.Func, points []types.Point, first int, start, step float64) {
	for k := range points {
		x := X(start, step, first+k)
		points[k] = types.Point{X: x, Y: fn(x)}
	}
}

// Bounds returns the minimum and maximum y of points. When seeded is true
// both bounds start at 0; otherwise they start at the first non-NaN y.
// NaN values are ignored; infinities are not.
func Bounds(points []types.Point, seeded bool) (minY, maxY float64) {
	started := seeded
	for _, p := range points {
		if math.IsNaN(p.Y) {
			continue
		}
		if !started {
			minY, maxY = p.Y, p.Y
			started = true
			continue
		}
		if p.Y > maxY {
			maxY = p.Y
		}
		if p.Y < minY {
			minY = p.Y
		}
	}
	return minY, maxY
}
