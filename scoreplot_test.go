package scoreplot_test

import (
	"context"
	"math"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/sandrolain/scoreplot"
	"github.com/sandrolain/scoreplot/pkg/evaluator"
	"github.com/sandrolain/scoreplot/pkg/sampler"
	"github.com/sandrolain/scoreplot/pkg/types"
)

func TestCompile(t *testing.T) {
	expr, err := scoreplot.Compile("pow(x,4)")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if got := expr.Eval(2); got != 16 {
		t.Errorf("pow(x,4) at 2 = %v, want 16", got)
	}

	if _, err := scoreplot.Compile("bogus(x)"); types.CodeOf(err) != types.ErrUnknownFunction {
		t.Errorf("bogus(x): error = %v, want %s", err, types.ErrUnknownFunction)
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile did not panic")
		}
	}()
	scoreplot.MustCompile("sum(x)")
}

func TestPrepare(t *testing.T) {
	if got := scoreplot.Prepare("recip( price, 4, 4, 0 )", "price"); got != "recip(x,4,4,0)" {
		t.Errorf("Prepare() = %q", got)
	}
}

func TestPlot(t *testing.T) {
	res, err := scoreplot.Plot(context.Background(), scoreplot.Request{
		Formula: "recip(price, 4, 4, 0)",
		Field:   "price",
		Start:   0,
		End:     1,
	})
	if err != nil {
		t.Fatalf("Plot() error = %v", err)
	}
	if res.Label != "price" {
		t.Errorf("Label = %q, want price", res.Label)
	}
	if res.Formula != "recip(x,4,4,0)" {
		t.Errorf("Formula = %q", res.Formula)
	}
	if res.Samples.Len() != 6 {
		t.Fatalf("got %d points, want 6", res.Samples.Len())
	}
	if !math.IsInf(res.Samples.Points[0].Y, 1) {
		t.Errorf("y at 0 = %v, want +Inf", res.Samples.Points[0].Y)
	}
	if got := res.Samples.Points[5].Y; got != 1 {
		t.Errorf("y at 1 = %v, want 1", got)
	}
}

func TestPlotDefaultLabel(t *testing.T) {
	res, err := scoreplot.Plot(context.Background(), scoreplot.Request{Formula: "max(2, x)", End: 3})
	if err != nil {
		t.Fatal(err)
	}
	if res.Label != "x" {
		t.Errorf("Label = %q, want x", res.Label)
	}
	if res.Samples.MinY != 0 || res.Samples.MaxY != 3 {
		t.Errorf("bounds = [%v, %v], want [0, 3]", res.Samples.MinY, res.Samples.MaxY)
	}
}

func TestPlotterOptions(t *testing.T) {
	p, err := scoreplot.NewPlotter(
		scoreplot.WithEvalOptions(evaluator.WithVariable("v")),
		scoreplot.WithSampleOptions(sampler.WithStep(1), sampler.WithSeededBounds(false)),
		scoreplot.WithParallel(true),
	)
	if err != nil {
		t.Fatal(err)
	}

	res, err := p.Plot(context.Background(), scoreplot.Request{Formula: "sum(score,10)", Field: "score", Start: 0, End: 4})
	if err != nil {
		t.Fatal(err)
	}
	if res.Formula != "sum(v,10)" {
		t.Errorf("Formula = %q, want sum(v,10)", res.Formula)
	}
	if res.Samples.Len() != 5 {
		t.Errorf("got %d points, want 5", res.Samples.Len())
	}
	if res.Samples.MinY != 10 || res.Samples.MaxY != 14 {
		t.Errorf("bounds = [%v, %v], want [10, 14]", res.Samples.MinY, res.Samples.MaxY)
	}
}

func TestPlotErrors(t *testing.T) {
	ctx := context.Background()

	_, err := scoreplot.Plot(ctx, scoreplot.Request{Formula: "sum(x, y)", End: 1})
	if !types.IsCompileError(err) {
		t.Errorf("unknown token: error = %v, want a compile error", err)
	}

	_, err = scoreplot.Plot(ctx, scoreplot.Request{Formula: "x", End: 1},
		scoreplot.WithSampleOptions(sampler.WithStep(0)))
	if types.CodeOf(err) != types.ErrInvalidRange {
		t.Errorf("zero step: error = %v, want %s", err, types.ErrInvalidRange)
	}

	res, err := scoreplot.Plot(ctx, scoreplot.Request{Formula: "x", Start: 2, End: 1})
	if err != nil {
		t.Fatalf("reversed range: %v", err)
	}
	if res.Samples.Len() != 0 {
		t.Errorf("reversed range produced %d points", res.Samples.Len())
	}
}

func TestPlotSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(noop.NewTracerProvider())
	})

	ctx := context.Background()
	if _, err := scoreplot.Plot(ctx, scoreplot.Request{Formula: "sum(x,1)", End: 1}); err != nil {
		t.Fatal(err)
	}
	_, _ = scoreplot.Plot(ctx, scoreplot.Request{Formula: "bogus(x)", End: 1})

	names := map[string]int{}
	failed := 0
	for _, span := range recorder.Ended() {
		names[span.Name()]++
		if span.Status().Code == codes.Error {
			failed++
		}
	}
	if names["scoreplot.plot"] != 2 || names["scoreplot.compile"] != 2 || names["scoreplot.sample"] != 1 {
		t.Errorf("unexpected spans: %v", names)
	}
	if failed != 1 {
		t.Errorf("%d spans with error status, want 1", failed)
	}
}

func TestVersion(t *testing.T) {
	if scoreplot.Version() == "" {
		t.Error("Version() is empty")
	}
}
