package parser_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/sandrolain/scoreplot/pkg/parser"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single", "x", []string{"x"}},
		{"two", "x,1", []string{"x", "1"}},
		{"nested call kept whole", "x,sum(1,2),y", []string{"x", "sum(1,2)", "y"}},
		{"whitespace preserved", "x, sum(1,2), y", []string{"x", " sum(1,2)", " y"}},
		{"deep nesting", "sum(x,max(1,min(2,3))),4", []string{"sum(x,max(1,min(2,3)))", "4"}},
		{"empty input", "", []string{""}},
		{"trailing comma", "x,", []string{"x", ""}},
		{"leading comma", ",x", []string{"", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.Split(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitAfterWhitespaceRemoval(t *testing.T) {
	prepared := parser.Prepare("x, sum(1,2), y", "", "x")
	got := parser.Split(prepared)
	want := []string{"x", "sum(1,2)", "y"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split(%q) = %q, want %q", prepared, got, want)
	}
}

func TestSplitPiecesBalanced(t *testing.T) {
	inputs := []string{
		"a,b(c,d(e,f)),g(h)",
		"sum(x,sum(x,-5)),recip(x,4,4,0),1",
		"f(g(h(i,j),k),l)",
	}
	for _, input := range inputs {
		pieces := parser.Split(input)
		topLevelCommas := 0
		depth := 0
		for _, c := range input {
			switch c {
			case '(':
				depth++
			case ')':
				depth--
			case ',':
				if depth == 0 {
					topLevelCommas++
				}
			}
		}
		if len(pieces) != topLevelCommas+1 {
			t.Errorf("Split(%q) returned %d pieces, want %d", input, len(pieces), topLevelCommas+1)
		}
		for _, p := range pieces {
			if strings.Count(p, "(") != strings.Count(p, ")") {
				t.Errorf("Split(%q) piece %q is unbalanced", input, p)
			}
		}
		if strings.Join(pieces, ",") != input {
			t.Errorf("Split(%q) pieces do not rejoin to the input", input)
		}
	}
}
