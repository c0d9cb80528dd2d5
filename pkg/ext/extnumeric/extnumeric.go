// Package extnumeric provides extra numeric operations beyond the built-in
// registry: trigonometry, rounding and a few multi-argument helpers.
package extnumeric

import (
	"math"

	"github.com/sandrolain/scoreplot/pkg/functions"
)

// All returns all extended numeric operations.
func All() []functions.Operation {
	return []functions.Operation{
		Sin(),
		Cos(),
		Tan(),
		Asin(),
		Acos(),
		Atan(),
		Atan2(),
		Sign(),
		Trunc(),
		Floor(),
		Ceil(),
		Round(),
		Clamp(),
		Logb(),
		Hypot(),
	}
}

// Sin returns sin(a).
func Sin() functions.Operation { return functions.NewUnary("sin", math.Sin) }

// Cos returns cos(a).
func Cos() functions.Operation { return functions.NewUnary("cos", math.Cos) }

// Tan returns tan(a).
func Tan() functions.Operation { return functions.NewUnary("tan", math.Tan) }

// Asin returns asin(a).
func Asin() functions.Operation { return functions.NewUnary("asin", math.Asin) }

// Acos returns acos(a).
func Acos() functions.Operation { return functions.NewUnary("acos", math.Acos) }

// Atan returns atan(a).
func Atan() functions.Operation { return functions.NewUnary("atan", math.Atan) }

// Atan2 returns atan2(y, x).
func Atan2() functions.Operation {
	return functions.NewFixed("atan2", 2, func(a []float64) float64 {
		return math.Atan2(a[0], a[1])
	})
}

// Sign returns -1, 0 or 1. NaN stays NaN.
func Sign() functions.Operation {
	return functions.NewUnary("sign", func(n float64) float64 {
		switch {
		case n < 0:
			return -1
		case n > 0:
			return 1
		default:
			return n
		}
	})
}

// Trunc truncates toward zero.
func Trunc() functions.Operation { return functions.NewUnary("trunc", math.Trunc) }

// Floor rounds toward negative infinity.
func Floor() functions.Operation { return functions.NewUnary("floor", math.Floor) }

// Ceil rounds toward positive infinity.
func Ceil() functions.Operation { return functions.NewUnary("ceil", math.Ceil) }

// Round rounds half away from zero.
func Round() functions.Operation { return functions.NewUnary("round", math.Round) }

// Clamp returns clamp(n, lo, hi): n limited to [lo, hi].
func Clamp() functions.Operation {
	return functions.NewFixed("clamp", 3, func(a []float64) float64 {
		return math.Min(math.Max(a[0], a[1]), a[2])
	})
}

// Logb returns logb(n, base), the logarithm of n in the given base.
func Logb() functions.Operation {
	return functions.NewFixed("logb", 2, func(a []float64) float64 {
		return math.Log(a[0]) / math.Log(a[1])
	})
}

// Hypot folds its arguments as sqrt(a*a + b*b).
func Hypot() functions.Operation { return functions.NewReducer("hypot", math.Hypot) }
