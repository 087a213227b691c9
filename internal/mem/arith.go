package mem

import "math"

// Arena sizes are computed from caller-supplied capacities, so every step of
// the layout arithmetic checks for int overflow instead of truncating.

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// MulOverflowSafe multiplies a and b, returning ok = false when the result
// would overflow int. This guards capacity * elementSize layout calculations.
func MulOverflowSafe(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > 0 && b > 0 && a > math.MaxInt/b {
		return 0, false
	}
	if a < 0 && b < 0 && a < math.MaxInt/b {
		return 0, false
	}
	if a > 0 && b < 0 && b < math.MinInt/a {
		return 0, false
	}
	if a < 0 && b > 0 && a < math.MinInt/b {
		return 0, false
	}
	return a * b, true
}

// AlignOverflowSafe rounds n up to the next multiple of align, returning
// ok = false when the rounding would overflow int. n is unchanged if it is
// already aligned. align must be a positive power of two.
func AlignOverflowSafe(n, align int) (int, bool) {
	padded, ok := AddOverflowSafe(n, align-1)
	if !ok {
		return 0, false
	}
	return padded &^ (align - 1), true
}
