// Package ext provides optional operation packs that go beyond the built-in
// registry.
//
// The operations live in sub-packages grouped by category:
//   - extnumeric – sin, cos, tan, atan2, sign, trunc, floor, ceil, round, clamp, logb, hypot
//   - extsolr    – linear, map, ln, log10, sq
//
// # Integration – all extensions at once
//
//	import "github.com/sandrolain/scoreplot/pkg/ext"
//
//	expr, err := scoreplot.Compile("clamp(linear(x,2,1),0,10)", ext.WithAll())
//
// # Integration – by category
//
//	expr, err := scoreplot.Compile("sin(x)", ext.WithNumeric())
//
// # Integration – single operation from a sub-package
//
//	import "github.com/sandrolain/scoreplot/pkg/ext/extsolr"
//
//	expr, err := scoreplot.Compile("linear(x,2,1)",
//	    evaluator.WithOperations(extsolr.Linear()),
//	)
package ext

import (
	"github.com/sandrolain/scoreplot/pkg/evaluator"
	"github.com/sandrolain/scoreplot/pkg/ext/extnumeric"
	"github.com/sandrolain/scoreplot/pkg/ext/extsolr"
	"github.com/sandrolain/scoreplot/pkg/functions"
)

// All returns every extension operation.
func All() []functions.Operation {
	var all []functions.Operation
	all = append(all, extnumeric.All()...)
	all = append(all, extsolr.All()...)
	return all
}

// ByName returns the operations of the named pack ("numeric", "solr" or
// "all") and whether the pack exists.
func ByName(pack string) ([]functions.Operation, bool) {
	switch pack {
	case "numeric":
		return extnumeric.All(), true
	case "solr":
		return extsolr.All(), true
	case "all":
		return All(), true
	}
	return nil, false
}

// WithAll returns an EvalOption that registers every extension operation.
func WithAll() evaluator.EvalOption {
	return evaluator.WithOperations(All()...)
}

// WithNumeric returns an EvalOption for the extended numeric operations.
func WithNumeric() evaluator.EvalOption {
	return evaluator.WithOperations(extnumeric.All()...)
}

// WithSolr returns an EvalOption for the Solr-style operations.
func WithSolr() evaluator.EvalOption {
	return evaluator.WithOperations(extsolr.All()...)
}
