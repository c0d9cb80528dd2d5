// Package scoreplot turns scoring formulas into plottable curves.
//
// A scoring formula is a nested call expression over a single field, such as
// "sum(price,div(price,30))". scoreplot compiles the formula into a pure
// function of that field and samples it over a range, producing the points
// and y bounds a chart needs.
//
// # Quick Start
//
//	// Compile a prepared formula (whitespace removed, field already "x")
//	expr, err := scoreplot.Compile("pow(x,4)")
//	y := expr.Eval(2) // 16
//
//	// From raw user input to samples in one call
//	plot, err := scoreplot.Plot(ctx, scoreplot.Request{
//	    Formula: "recip(price, 4, 4, 0)",
//	    Field:   "price",
//	    Start:   0,
//	    End:     10,
//	})
//
// # Errors
//
// A formula that cannot be compiled yields a *types.Error whose Code tells
// the problem apart (unknown token, wrong argument count, unbalanced
// parentheses, ...). Numeric trouble at evaluation time, such as division by
// zero, is not an error: it shows up as ±Inf or NaN in the samples.
//
// # More Information
//
//   - Parser: github.com/sandrolain/scoreplot/pkg/parser
//   - Evaluator: github.com/sandrolain/scoreplot/pkg/evaluator
//   - Operations: github.com/sandrolain/scoreplot/pkg/functions
//   - Sampler: github.com/sandrolain/scoreplot/pkg/sampler
//   - Types: github.com/sandrolain/scoreplot/pkg/types
package scoreplot

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sandrolain/scoreplot/pkg/evaluator"
	"github.com/sandrolain/scoreplot/pkg/parser"
	"github.com/sandrolain/scoreplot/pkg/sampler"
	"github.com/sandrolain/scoreplot/pkg/types"
)

const tracerName = "github.com/sandrolain/scoreplot"

// Version returns the current version of scoreplot.
func Version() string {
	return "v0.1.0-dev"
}

// Compile compiles a prepared formula.
//
// The compiled expression can be evaluated any number of times and is safe
// for concurrent use.
//
// Example:
//
//	expr, err := scoreplot.Compile("max(2,x)")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(expr.Eval(5)) // 5
func Compile(formula string, opts ...evaluator.EvalOption) (*types.Expression, error) {
	return evaluator.New(opts...).Compile(formula)
}

// MustCompile is like Compile but panics if the formula cannot be compiled.
// It simplifies safe initialization of global variables.
func MustCompile(formula string, opts ...evaluator.EvalOption) *types.Expression {
	expr, err := Compile(formula, opts...)
	if err != nil {
		panic(fmt.Sprintf("scoreplot: Compile(%q): %v", formula, err))
	}
	return expr
}

// Prepare removes whitespace from raw and replaces field with the default
// variable token "x". See parser.Prepare.
func Prepare(raw, field string) string {
	return parser.Prepare(raw, field, parser.DefaultVariable)
}

// Request describes one plot.
type Request struct {
	// Formula is the raw user input.
	Formula string `json:"formula" yaml:"formula"`
	// Field is the name the formula uses for the variable. Empty means the
	// formula already uses the variable token.
	Field string `json:"field,omitempty" yaml:"field,omitempty"`
	// Start and End delimit the sampled range, inclusive.
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// Result is what a renderer needs to draw a curve.
type Result struct {
	// Label is the axis label, the field name when one was given.
	Label string `json:"label" yaml:"label"`
	// Formula is the prepared formula that was compiled.
	Formula string  `json:"formula" yaml:"formula"`
	Start   float64 `json:"start" yaml:"start"`
	End     float64 `json:"end" yaml:"end"`
	// Samples holds the points and y bounds.
	Samples *types.SampleSet `json:"samples" yaml:"samples"`
}

// Options configures a Plotter.
type Options struct {
	Eval     []evaluator.EvalOption
	Sample   []sampler.Option
	Parallel bool
}

// Option configures a Plotter.
type Option func(*Options)

// WithEvalOptions passes options to the evaluator.
func WithEvalOptions(opts ...evaluator.EvalOption) Option {
	return func(o *Options) {
		o.Eval = append(o.Eval, opts...)
	}
}

// WithSampleOptions passes options to the sampler.
func WithSampleOptions(opts ...sampler.Option) Option {
	return func(o *Options) {
		o.Sample = append(o.Sample, opts...)
	}
}

// WithParallel samples disjoint sub-ranges concurrently.
func WithParallel(enabled bool) Option {
	return func(o *Options) {
		o.Parallel = enabled
	}
}

// Plotter compiles and samples formulas. It is safe for concurrent use.
type Plotter struct {
	opts Options
	eval *evaluator.Evaluator
}

// NewPlotter creates a Plotter.
func NewPlotter(opts ...Option) (*Plotter, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	ev, err := evaluator.NewChecked(o.Eval...)
	if err != nil {
		return nil, err
	}
	return &Plotter{opts: o, eval: ev}, nil
}

// Evaluator returns the evaluator used by the plotter.
func (p *Plotter) Evaluator() *evaluator.Evaluator {
	return p.eval
}

// Compile prepares raw input for field and compiles it.
func (p *Plotter) Compile(ctx context.Context, raw, field string) (*types.Expression, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "scoreplot.compile")
	defer span.End()

	formula := parser.Prepare(raw, field, p.eval.Variable())
	span.SetAttributes(attribute.String("scoreplot.formula", formula))

	expr, err := p.eval.Compile(formula)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid formula")
		span.SetAttributes(attribute.String("scoreplot.error_code", string(types.CodeOf(err))))
		return nil, err
	}
	return expr, nil
}

// Sample samples expr over [start, end].
func (p *Plotter) Sample(ctx context.Context, expr *types.Expression, start, end float64) (*types.SampleSet, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "scoreplot.sample", trace.WithAttributes(
		attribute.Float64("scoreplot.start", start),
		attribute.Float64("scoreplot.end", end),
		attribute.Bool("scoreplot.parallel", p.opts.Parallel),
	))
	defer span.End()

	var set *types.SampleSet
	var err error
	if p.opts.Parallel {
		set, err = sampler.SampleParallel(ctx, expr.Func(), start, end, p.opts.Sample...)
	} else {
		set, err = sampler.Sample(expr.Func(), start, end, p.opts.Sample...)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sampling failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("scoreplot.points", set.Len()))
	return set, nil
}

// Plot compiles req.Formula and samples it over [req.Start, req.End].
func (p *Plotter) Plot(ctx context.Context, req Request) (*Result, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "scoreplot.plot")
	defer span.End()

	expr, err := p.Compile(ctx, req.Formula, req.Field)
	if err != nil {
		return nil, err
	}
	set, err := p.Sample(ctx, expr, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	label := req.Field
	if label == "" {
		label = expr.Variable()
	}
	return &Result{
		Label:   label,
		Formula: expr.Source(),
		Start:   req.Start,
		End:     req.End,
		Samples: set,
	}, nil
}

// Plot is a convenience function that builds a Plotter and plots a single
// request. For repeated plots, create a Plotter once and reuse it.
func Plot(ctx context.Context, req Request, opts ...Option) (*Result, error) {
	p, err := NewPlotter(opts...)
	if err != nil {
		return nil, err
	}
	return p.Plot(ctx, req)
}
