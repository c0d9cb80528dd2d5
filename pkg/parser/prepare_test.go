package parser_test

import (
	"testing"

	"github.com/sandrolain/scoreplot/pkg/parser"
)

func TestPrepare(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
		want  string
	}{
		{"strips spaces", "sum( x , 1 )", "", "sum(x,1)"},
		{"strips tabs and newlines", "sum(x,\n\t1)", "", "sum(x,1)"},
		{"replaces field", "div(price, 30)", "price", "div(x,30)"},
		{"replaces every occurrence", "sum(price,div(price,30))", "price", "sum(x,div(x,30))"},
		{"whole identifiers only", "sum(price,prices)", "price", "sum(x,prices)"},
		{"field inside operation name", "exp(e)", "e", "exp(x)"},
		{"field inside exponent", "sum(e,1e5)", "e", "sum(x,1e5)"},
		{"field shadowing operation", "log(log)", "log", "log(x)"},
		{"underscore names", "sum(my_field,my_field_2)", "my_field", "sum(x,my_field_2)"},
		{"no field", "sum(x,1)", "", "sum(x,1)"},
		{"field equals variable", "sum(x,1)", "x", "sum(x,1)"},
		{"field with spaces trimmed", "sum(price,1)", " price ", "sum(x,1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.Prepare(tt.raw, tt.field, "x")
			if got != tt.want {
				t.Errorf("Prepare(%q, %q) = %q, want %q", tt.raw, tt.field, got, tt.want)
			}
		})
	}
}

func TestPrepareCustomVariable(t *testing.T) {
	got := parser.Prepare("sum(price, 1)", "price", "_v")
	if got != "sum(_v,1)" {
		t.Errorf("got %q, want %q", got, "sum(_v,1)")
	}
}
