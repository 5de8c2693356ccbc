package channel

import (
	"encoding/binary"
	"fmt"
	"math"
)

type floatDecoder struct {
	typ    Type
	data   []float32
	lo, hi float32
	ready  bool
}

func (d *floatDecoder) Type() Type { return d.typ }

func (d *floatDecoder) Preprocess(buf []byte, offset, stride int) {
	if (stride <= 0) || (offset < 0) || (offset+d.typ.Width > stride) {
		panic(fmt.Sprintf("channel: %v does not fit at offset %v of %v byte record", d.typ, offset, stride))
	}

	n := len(buf) / stride
	d.data = make([]float32, n)
	d.lo, d.hi = float32(math.Inf(1)), float32(math.Inf(-1))

	// The high bytes of stage are never written.
	var stage [4]byte
	for i := range n {
		start := i*stride + offset
		copy(stage[:], buf[start:start+d.typ.Width])

		v := math.Float32frombits(binary.LittleEndian.Uint32(stage[:]))
		d.data[i] = v
		if math.IsInf(float64(v), 0) {
			continue
		}
		if v < d.lo {
			d.lo = v
		}
		if v > d.hi {
			d.hi = v
		}
	}

	d.ready = true
}

func (d *floatDecoder) Len() int { return len(d.data) }

func (d *floatDecoder) Range() (lo, hi float64) {
	return float64(d.lo), float64(d.hi)
}

func (d *floatDecoder) Degenerate() bool {
	return !(d.hi > d.lo)
}

func (d *floatDecoder) Values() []float64 {
	vals := make([]float64, len(d.data))
	for i, v := range d.data {
		vals[i] = float64(v)
	}
	return vals
}

func (d *floatDecoder) Read(i int) (byte, error) {
	if !d.ready {
		return 0, ErrNotPreprocessed
	}
	if (i < 0) || (i >= len(d.data)) {
		return 0, fmt.Errorf("%w: %v not in [0, %v)", ErrIndexOutOfRange, i, len(d.data))
	}

	return normalize(d.data[i], d.lo, d.hi), nil
}
