package parser_test

import (
	"testing"

	"github.com/sandrolain/scoreplot/pkg/parser"
)

func FuzzParse(f *testing.F) {
	seeds := []string{
		"x",
		"42",
		"sum(2,x)",
		"sum(x,sum(x,-5))",
		"recip(x,4,4,0)",
		"pow(x,4)",
		"div(x,0)",
		"bogus(x)",
		"sum(x,",
		"sum(x,1))",
		"(x)",
		"45foo",
		"max()",
		",,,",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, query string) {
		ast, err := parser.Parse(query)
		if err != nil {
			if ast != nil {
				t.Fatalf("Parse(%q) returned both a tree and an error", query)
			}
			return
		}

		// A parsed tree renders to text that parses back to the same tree.
		text := ast.String()
		again, err := parser.Parse(text)
		if err != nil {
			t.Fatalf("Parse(%q) accepted, but its rendering %q was rejected: %v", query, text, err)
		}
		if again.String() != text {
			t.Fatalf("rendering not stable: %q then %q", text, again.String())
		}
	})
}

func FuzzPrepare(f *testing.F) {
	f.Add("sum( price , div(price, 30) )", "price")
	f.Add("exp(e)", "e")
	f.Add("", "")

	f.Fuzz(func(t *testing.T, raw, field string) {
		out := parser.Prepare(raw, field, parser.DefaultVariable)
		// Preparing is idempotent once the field has been substituted away.
		if again := parser.Prepare(out, "", parser.DefaultVariable); again != out {
			t.Fatalf("Prepare not stable: %q then %q", out, again)
		}
	})
}
