package blobviz_test

import (
	"bytes"
	"math"
	"slices"
	"testing"

	"deedles.dev/blobviz"
	"deedles.dev/blobviz/format"
	"deedles.dev/blobviz/internal/testgen"
	"deedles.dev/blobviz/layout"
	"github.com/stretchr/testify/require"
)

func mustParse(t testing.TB, text string) layout.Layout {
	l, err := layout.Parse(text)
	require.NoError(t, err)
	return l
}

func TestDecodeEmptyLayout(t *testing.T) {
	_, err := blobviz.Decode([]byte{1, 2, 3, 4}, layout.Layout{})
	require.ErrorIs(t, err, blobviz.ErrEmptyLayout)

	_, err = blobviz.Decode(nil, mustParse(t, " ; "))
	require.ErrorIs(t, err, blobviz.ErrEmptyLayout)
}

func TestDecodeStride(t *testing.T) {
	d, err := blobviz.Decode(make([]byte, 9), mustParse(t, "r:1;g:1;b:1"))
	require.NoError(t, err)
	require.Equal(t, 3, d.Stride())
	require.Equal(t, 3, d.Records())

	d, err = blobviz.Decode(make([]byte, 36), mustParse(t, "a:4;b:4;c:4"))
	require.NoError(t, err)
	require.Equal(t, 12, d.Stride())
	require.Equal(t, 3, d.Records())
	require.Equal(t, 3, d.Layout().Len())
}

func TestDecodeTrailingPartialRecord(t *testing.T) {
	buf := testgen.Interleave(testgen.Ramp(5, 0, 1), testgen.Ramp(5, 10, -1))
	for extra := range 8 {
		d, err := blobviz.Decode(append(slices.Clip(buf), make([]byte, extra)...), mustParse(t, "x:4;y:4"))
		require.NoError(t, err)
		require.Equal(t, 5, d.Records())

		_, err = d.Pixel(5)
		require.ErrorIs(t, err, blobviz.ErrIndexOutOfRange)
	}
}

func TestDecodeDoesNotModifyBuffer(t *testing.T) {
	buf := testgen.Gradient(4, 4)
	orig := bytes.Clone(buf)

	d, err := blobviz.Decode(buf, mustParse(t, "x:4;y:4"))
	require.NoError(t, err)
	_, err = d.Image(4, 4)
	require.NoError(t, err)
	require.Equal(t, orig, buf)
}

func TestPixelOneChannel(t *testing.T) {
	buf := testgen.Interleave([]float32{0, 1, 2})
	d, err := blobviz.Decode(buf, mustParse(t, "v:4"))
	require.NoError(t, err)

	for i, red := range []uint8{0, 127, 255} {
		p, err := d.Pixel(i)
		require.NoError(t, err)
		require.Equal(t, format.Pack(red, 0, 0), p)
	}
}

func TestPixelTwoChannels(t *testing.T) {
	buf := testgen.Interleave([]float32{0, 4}, []float32{8, -8})
	d, err := blobviz.Decode(buf, mustParse(t, "a:4;b:4"))
	require.NoError(t, err)

	p, err := d.Pixel(0)
	require.NoError(t, err)
	require.Equal(t, uint32(0xFF00FF00), p)

	p, err = d.Pixel(1)
	require.NoError(t, err)
	require.Equal(t, uint32(0xFFFF0000), p)
}

func TestPixelThreeChannels(t *testing.T) {
	buf := testgen.Interleave([]float32{0, 1}, []float32{1, 0}, []float32{0, 1})
	d, err := blobviz.Decode(buf, mustParse(t, "float:4;float:4;float:4"))
	require.NoError(t, err)

	p, err := d.Pixel(0)
	require.NoError(t, err)
	require.Equal(t, uint32(0xFF00FF00), p)

	p, err = d.Pixel(1)
	require.NoError(t, err)
	require.Equal(t, uint32(0xFFFF00FF), p)
}

func TestPixelOutOfRange(t *testing.T) {
	for _, text := range []string{"a:4", "a:4;b:4", "a:4;b:4;c:4"} {
		t.Run(text, func(t *testing.T) {
			l := mustParse(t, text)
			vals := make([][]float32, l.Len())
			for i := range vals {
				vals[i] = testgen.Ramp(4, 0, 1)
			}

			d, err := blobviz.Decode(testgen.Interleave(vals...), l)
			require.NoError(t, err)
			require.Equal(t, 4, d.Records())

			for _, i := range []int{4, 5, 1000, -1} {
				_, err := d.Pixel(i)
				require.ErrorIs(t, err, blobviz.ErrIndexOutOfRange)

				var cerr *blobviz.ChannelError
				require.ErrorAs(t, err, &cerr)
				require.Equal(t, layout.Red, cerr.Role)
				require.Equal(t, "a", cerr.Channel.Name)
			}
		})
	}
}

func TestDegenerateChannel(t *testing.T) {
	buf := testgen.Interleave(testgen.Constant(16, 3.25), testgen.Ramp(16, 0, 1))
	d, err := blobviz.Decode(buf, mustParse(t, "flat:4;ramp:4"))
	require.NoError(t, err)

	for i, p := range slices.Collect(d.Pixels()) {
		r, _, b, a := format.Unpack(p)
		require.Zero(t, r, "record %v", i)
		require.Zero(t, b, "record %v", i)
		require.Equal(t, uint8(0xFF), a)
	}

	err = d.CheckDegenerate()
	require.ErrorIs(t, err, blobviz.ErrDegenerateChannel)
	var cerr *blobviz.ChannelError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, layout.Red, cerr.Role)

	d, err = blobviz.Decode(testgen.Interleave(testgen.Ramp(4, 0, 1)), mustParse(t, "ramp:4"))
	require.NoError(t, err)
	require.NoError(t, d.CheckDegenerate())
}

func TestRoundTrip(t *testing.T) {
	const n = 1000
	vals := testgen.Ramp(n, -250, 0.5)
	d, err := blobviz.Decode(testgen.Interleave(vals), mustParse(t, "v:4"))
	require.NoError(t, err)

	lo, hi := float64(vals[0]), float64(vals[n-1])
	prev := uint8(0)
	for i, v := range vals {
		p, err := d.Pixel(i)
		require.NoError(t, err)

		r, g, b, _ := format.Unpack(p)
		require.Zero(t, g)
		require.Zero(t, b)
		require.GreaterOrEqual(t, r, prev)

		expected := math.Round((float64(v) - lo) / (hi - lo) * 255)
		require.InDelta(t, expected, float64(r), 1, "record %v", i)
		prev = r
	}
}

func TestCompose(t *testing.T) {
	d, err := blobviz.Decode(testgen.Interleave(testgen.Ramp(3, 0, 1)), mustParse(t, "v:4"))
	require.NoError(t, err)

	dst := []uint32{1, 1, 1, 1, 1}
	require.Equal(t, 3, d.Compose(dst))
	require.Equal(t, []uint32{format.Pack(0, 0, 0), format.Pack(127, 0, 0), format.Pack(255, 0, 0), 1, 1}, dst)

	dst = make([]uint32, 2)
	require.Equal(t, 2, d.Compose(dst))
	require.Equal(t, format.Pack(127, 0, 0), dst[1])

	var pixels []uint32
	for p := range d.Pixels() {
		pixels = append(pixels, p)
		break
	}
	require.Equal(t, []uint32{format.Pack(0, 0, 0)}, pixels)
}

func TestImage(t *testing.T) {
	const w, h = 16, 8
	d, err := blobviz.Decode(testgen.Gradient(w, h), mustParse(t, "x:4;y:4"))
	require.NoError(t, err)

	img, err := d.Image(w, h+1)
	require.NoError(t, err)
	require.Equal(t, w, img.Bounds().Dx())
	require.Equal(t, h+1, img.Bounds().Dy())

	for y := range h {
		for x := range w {
			r, g, b, a := format.Unpack(img.Word(x, y))
			require.InDelta(t, float64(x)*255/(w-1), float64(r), 1, "(%v, %v)", x, y)
			require.InDelta(t, float64(y)*255/(h-1), float64(g), 1, "(%v, %v)", x, y)
			require.Zero(t, b)
			require.Equal(t, uint8(0xFF), a)
		}
	}
	for x := range w {
		require.Zero(t, img.Word(x, h))
	}

	for _, dims := range [][2]int{{0, 1}, {1, 0}, {-1, 5}, {math.MaxInt / 2, 3}, {3, math.MaxInt}} {
		_, err := d.Image(dims[0], dims[1])
		require.ErrorIs(t, err, blobviz.ErrInvalidDimensions)
	}
}

func BenchmarkDecodeImage(b *testing.B) {
	buf := testgen.Gradient(512, 512)
	l := mustParse(b, "x:4;y:4")

	for b.Loop() {
		d, _ := blobviz.Decode(buf, l)
		d.Image(512, 512)
	}
}
