// Package blobviz turns arbitrary byte buffers into images.
//
// A buffer is treated as a sequence of fixed-size records, each
// holding one value for every channel of a layout.Layout. Decoding
// runs in two passes. Decode first extracts every channel from the
// whole buffer, recording each channel's minimum and maximum. Pixels
// can then be composed from the decoded channels, with each channel
// rescaled to the 0-255 range and placed into the red, green or blue
// component of the pixel according to its position in the layout.
package blobviz

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"deedles.dev/blobviz/channel"
	"deedles.dev/blobviz/format"
	"deedles.dev/blobviz/layout"
	"deedles.dev/xiter"
)

var (
	// ErrEmptyLayout is returned when decoding with a layout that has
	// no channels.
	ErrEmptyLayout = errors.New("layout has no channels")

	// ErrDegenerateChannel indicates a channel whose values have no
	// range to normalize over. Such a channel contributes 0 to every
	// pixel.
	ErrDegenerateChannel = errors.New("channel has no range")

	// ErrIndexOutOfRange is returned when a pixel is requested for a
	// record that doesn't exist.
	ErrIndexOutOfRange = channel.ErrIndexOutOfRange

	// ErrInvalidDimensions is returned when an image is requested
	// with a non-positive width or height.
	ErrInvalidDimensions = errors.New("invalid image dimensions")
)

// ChannelError is an error concerning a single channel of a decode.
type ChannelError struct {
	Role    layout.Role
	Channel layout.Channel
	Err     error
}

func (err *ChannelError) Error() string {
	return fmt.Sprintf("%v channel %q (%v): %v", err.Role, err.Channel.Name, err.Channel.Type, err.Err)
}

func (err *ChannelError) Unwrap() error {
	return err.Err
}

// Decoded holds the channels of a buffer that has been decoded with a
// layout. It does not reference the buffer.
type Decoded struct {
	layout   layout.Layout
	decoders [layout.MaxChannels]channel.Decoder
	records  int
}

// Decode extracts every channel of l from buf. Any trailing bytes
// that don't form a complete record are ignored. buf is not modified.
func Decode(buf []byte, l layout.Layout) (*Decoded, error) {
	stride := l.Stride()
	if (l.Len() == 0) || (stride == 0) {
		return nil, ErrEmptyLayout
	}

	d := Decoded{
		layout:  l,
		records: len(buf) / stride,
	}
	for r, c := range l.All() {
		dec := c.Type.New()
		dec.Preprocess(buf, l.Offset(r), stride)
		d.decoders[r] = dec
	}

	return &d, nil
}

// Layout returns the layout that was used to decode.
func (d *Decoded) Layout() layout.Layout { return d.layout }

// Stride returns the size of each record in bytes.
func (d *Decoded) Stride() int { return d.layout.Stride() }

// Records returns the number of complete records that were decoded,
// and thus the number of pixels that can be composed.
func (d *Decoded) Records() int { return d.records }

func (d *Decoded) active() []channel.Decoder {
	return d.decoders[:d.layout.Len()]
}

func (d *Decoded) channelError(r layout.Role, err error) error {
	c, _ := d.layout.Channel(r)
	return &ChannelError{Role: r, Channel: c, Err: err}
}

// Pixel composes the pixel for record i as an opaque ARGB8888 word.
// Components without a channel are 0.
func (d *Decoded) Pixel(i int) (uint32, error) {
	var rgb [layout.MaxChannels]uint8
	for r, dec := range d.active() {
		v, err := dec.Read(i)
		if err != nil {
			return 0, d.channelError(layout.Role(r), err)
		}
		rgb[r] = v
	}

	return format.Pack(rgb[layout.Red], rgb[layout.Green], rgb[layout.Blue]), nil
}

// Pixels yields the composed pixel of every record in order.
func (d *Decoded) Pixels() iter.Seq[uint32] {
	return d.pixels(d.records)
}

func (d *Decoded) pixels(n int) iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for i := range n {
			// i is always in range.
			p, _ := d.Pixel(i)
			if !yield(p) {
				return
			}
		}
	}
}

// Compose fills dst with composed pixels, starting from the first
// record. It returns the number of pixels written, which is the
// smaller of len(dst) and the number of records. Elements of dst past
// that are left untouched.
func (d *Decoded) Compose(dst []uint32) int {
	n := min(len(dst), d.records)
	for i, p := range xiter.Enumerate(d.pixels(n)) {
		dst[i] = p
	}
	return n
}

// Image composes a width by height image with one pixel per record in
// row-major order. If the image has more pixels than there are
// records, the remaining pixels are transparent. The image's pixel
// data must fit in an int.
func (d *Decoded) Image(width, height int) (*format.Image, error) {
	if (width <= 0) || (height <= 0) || (width > math.MaxInt/4/height) {
		return nil, fmt.Errorf("%w: %vx%v", ErrInvalidDimensions, width, height)
	}

	pix := make([]uint32, width*height)
	d.Compose(pix)
	return format.FromWords(width, height, pix), nil
}

// CheckDegenerate returns an error wrapping ErrDegenerateChannel for
// every channel that has no range, or nil if there are none.
func (d *Decoded) CheckDegenerate() error {
	var errs []error
	for r, dec := range d.active() {
		if dec.Degenerate() {
			errs = append(errs, d.channelError(layout.Role(r), ErrDegenerateChannel))
		}
	}
	return errors.Join(errs...)
}
