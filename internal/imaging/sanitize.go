package imaging

import (
	"math"
	"strconv"
)

// MaxDimension is the largest width or height a raster surface may have.
const MaxDimension = 32767

// SanitizeDimension converts a requested surface dimension into a usable
// positive integer, clamped to MaxDimension.
//
// Missing (nil), non-numeric, NaN, infinite, zero and negative values yield
// def. Fractional values are floored. Values above the ceiling are clamped.
// No error is ever returned.
func SanitizeDimension(v any, def int) int {
	return SanitizeDimensionMax(v, def, MaxDimension)
}

// SanitizeDimensionMax is SanitizeDimension with an explicit ceiling. A
// ceiling outside 1..MaxDimension is treated as MaxDimension.
func SanitizeDimensionMax(v any, def, ceiling int) int {
	if ceiling < 1 || ceiling > MaxDimension {
		ceiling = MaxDimension
	}
	if def < 1 {
		def = 1
	}
	if def > ceiling {
		def = ceiling
	}

	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return def
	}

	f = math.Floor(f)
	if f < 1 {
		// 0 < v < 1 floors to zero, which is not a usable dimension
		return def
	}
	if f > float64(ceiling) {
		return ceiling
	}
	return int(f)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case *float64:
		if n == nil {
			return 0, false
		}
		return *n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
