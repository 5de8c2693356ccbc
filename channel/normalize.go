package channel

import (
	"math"

	"golang.org/x/exp/constraints"
)

// normalize linearly maps v from [lo, hi] onto [0, 255], truncating
// the result. Values outside of the range saturate. NaN, and every
// value of a channel with hi <= lo, map to 0.
//
// The arithmetic is done in float64 so that the span of a float32
// channel can't overflow.
func normalize[F constraints.Float](v, lo, hi F) byte {
	if !(hi > lo) || math.IsNaN(float64(v)) {
		return 0
	}

	n := (float64(v) - float64(lo)) / (float64(hi) - float64(lo))
	switch {
	case math.IsNaN(n), n <= 0:
		return 0
	case n >= 1:
		return 0xFF
	}
	return byte(n * 255)
}
