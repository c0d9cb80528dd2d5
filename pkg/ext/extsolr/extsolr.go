// Package extsolr adds operations that mirror Solr function queries commonly
// found in relevance formulas, so such formulas can be plotted unchanged.
package extsolr

import (
	"math"

	"github.com/sandrolain/scoreplot/pkg/functions"
)

// All returns all Solr-style operations.
func All() []functions.Operation {
	return []functions.Operation{
		Linear(),
		Map(),
		Ln(),
		Log10(),
		Sq(),
	}
}

// Linear returns linear(x, m, c) = m*x + c.
func Linear() functions.Operation {
	return functions.NewFixed("linear", 3, func(a []float64) float64 {
		return a[1]*a[0] + a[2]
	})
}

// Map returns map(x, min, max, target, other): target when min <= x <= max,
// other otherwise.
func Map() functions.Operation {
	return functions.NewFixed("map", 5, func(a []float64) float64 {
		if a[0] >= a[1] && a[0] <= a[2] {
			return a[3]
		}
		return a[4]
	})
}

// Ln returns the natural logarithm.
func Ln() functions.Operation { return functions.NewUnary("ln", math.Log) }

// Log10 returns the base-10 logarithm.
func Log10() functions.Operation { return functions.NewUnary("log10", math.Log10) }

// Sq returns a*a.
func Sq() functions.Operation {
	return functions.NewUnary("sq", func(a float64) float64 { return a * a })
}
