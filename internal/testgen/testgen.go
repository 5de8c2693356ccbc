// Package testgen builds synthetic blobs for tests and sample data.
package testgen

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Interleave encodes records of little-endian float32 values. Record
// i holds channels[0][i], channels[1][i] and so on. Every channel must
// have the same length.
func Interleave(channels ...[]float32) []byte {
	if len(channels) == 0 {
		return nil
	}

	n := len(channels[0])
	stride := 4 * len(channels)
	buf := make([]byte, stride*n)
	for c, vals := range channels {
		if len(vals) != n {
			panic(fmt.Errorf("channel %v has %v values, expected %v", c, len(vals), n))
		}
		for i, v := range vals {
			binary.LittleEndian.PutUint32(buf[i*stride+4*c:], math.Float32bits(v))
		}
	}
	return buf
}

// Gradient returns w*h records in row-major order of two float32
// channels holding the x and y coordinates of each record.
func Gradient(w, h int) []byte {
	xs := make([]float32, 0, w*h)
	ys := make([]float32, 0, w*h)
	for y := range h {
		for x := range w {
			xs = append(xs, float32(x))
			ys = append(ys, float32(y))
		}
	}
	return Interleave(xs, ys)
}

// Ramp returns n evenly spaced values from start, step apart.
func Ramp(n int, start, step float32) []float32 {
	vals := make([]float32, n)
	for i := range vals {
		vals[i] = start + float32(i)*step
	}
	return vals
}

// Constant returns n copies of v.
func Constant(n int, v float32) []float32 {
	vals := make([]float32, n)
	for i := range vals {
		vals[i] = v
	}
	return vals
}
