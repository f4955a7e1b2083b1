package stdmath

import (
	"math"

	"github.com/podhmo/daro/ffibridge"
)

// Install binds the "math" package to the registry. Abs, Max and Min keep
// integers integral by offering an int64 overload next to the float64 one.
func Install(reg *ffibridge.Registry) {
	reg.Register("math", map[string]any{
		"Abs": ffibridge.Overload{
			func(x int64) int64 {
				if x < 0 {
					return -x
				}
				return x
			},
			math.Abs,
		},
		"Max":   ffibridge.Overload{func(x, y int64) int64 { return max(x, y) }, math.Max},
		"Min":   ffibridge.Overload{func(x, y int64) int64 { return min(x, y) }, math.Min},
		"Ceil":  math.Ceil,
		"Floor": math.Floor,
		"Round": math.Round,
		"Trunc": math.Trunc,
		"Sqrt":  math.Sqrt,
		"Cbrt":  math.Cbrt,
		"Pow":   math.Pow,
		"Exp":   math.Exp,
		"Log":   math.Log,
		"Log2":  math.Log2,
		"Log10": math.Log10,
		"Sin":   math.Sin,
		"Cos":   math.Cos,
		"Tan":   math.Tan,
		"Atan2": math.Atan2,
		"Hypot": math.Hypot,
		"Inf":   math.Inf,
		"IsInf": math.IsInf,
		"IsNaN": math.IsNaN,
		"Pi":    math.Pi,
		"E":     math.E,
	})
}
