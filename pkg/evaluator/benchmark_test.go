package evaluator_test

import (
	"testing"

	"github.com/sandrolain/scoreplot/pkg/evaluator"
)

var benchFormulas = []struct {
	name    string
	formula string
}{
	{"Simple", "sum(x,1)"},
	{"Nested", "sum(x,div(x,30),pow(x,2))"},
	{"Recip", "recip(x,4,4,0)"},
	{"Deep", "abs(abs(abs(abs(abs(abs(abs(abs(x))))))))"},
}

func BenchmarkCompile(b *testing.B) {
	for _, bf := range benchFormulas {
		b.Run(bf.name, func(b *testing.B) {
			ev := evaluator.New()
			b.ReportAllocs()
			for b.Loop() {
				if _, err := ev.Compile(bf.formula); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkCompileCached(b *testing.B) {
	ev := evaluator.New(evaluator.WithCaching(true))
	b.ReportAllocs()
	for b.Loop() {
		if _, err := ev.Compile("sum(x,div(x,30),pow(x,2))"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEval(b *testing.B) {
	for _, bf := range benchFormulas {
		b.Run(bf.name, func(b *testing.B) {
			expr, err := evaluator.New().Compile(bf.formula)
			if err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			x := 0.0
			for b.Loop() {
				_ = expr.Eval(x)
				x += 0.5
			}
		})
	}
}
