package format

import (
	"encoding/binary"
	"image"
	"image/color"
)

// Model implements color.Model using a Format.
type Model struct {
	Format Format
}

func (m Model) Convert(c color.Color) color.Color {
	fc := Color{Format: m.Format}
	r, g, b, a := c.RGBA()
	m.Format.Write(fc.Slice(), r, g, b, a)
	return &fc
}

// Color implements color.Color using a Format.
type Color struct {
	Format Format

	// Data contains the pixel data for the color. Only some bytes of
	// the array are used, dependant on the return value of Format.Size.
	Data [8]byte
}

// Slice returns a slice of Data correctly sized for the color's format.
func (c *Color) Slice() []byte {
	size := c.Format.Size()
	return c.Data[:size:size]
}

func (c *Color) RGBA() (r, g, b, a uint32) {
	return c.Format.Read(c.Slice())
}

// Image is an image with a color format defined by Format. Pixels are
// stored in row-major order with no padding between rows.
type Image struct {
	Format Format
	Rect   image.Rectangle
	Pix    []byte
}

// NewImage allocates a zeroed image with the given format and bounds.
func NewImage(f Format, r image.Rectangle) *Image {
	return &Image{
		Format: f,
		Rect:   r,
		Pix:    make([]byte, f.Size()*r.Dx()*r.Dy()),
	}
}

// FromWords returns an ARGB8888 image of width w and height h built
// from the packed pixel words in pix, which are in row-major order.
// Pixels past the end of pix are left transparent, and words past the
// end of the image are ignored.
func FromWords(w, h int, pix []uint32) *Image {
	img := NewImage(ARGB8888, image.Rect(0, 0, w, h))
	for i, p := range pix[:min(len(pix), w*h)] {
		binary.LittleEndian.PutUint32(img.Pix[4*i:], p)
	}
	return img
}

func (img *Image) Bounds() image.Rectangle { return img.Rect }

func (img *Image) ColorModel() color.Model { return Model{Format: img.Format} }

func (img *Image) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(img.Rect)) {
		return &Color{Format: img.Format}
	}

	size := img.Format.Size()
	c := Color{Format: img.Format}

	i := img.PixOffset(x, y)
	copy(c.Slice(), img.Pix[i:i+size:i+size])

	return &c
}

// Stride returns the distance in bytes between vertically adjacent
// pixels.
func (img *Image) Stride() int {
	return img.Format.Size() * img.Rect.Dx()
}

// PixOffset returns the index of the first byte of the pixel at (x, y)
// in Pix.
func (img *Image) PixOffset(x, y int) int {
	x -= img.Rect.Min.X
	y -= img.Rect.Min.Y
	return (img.Stride() * y) + (x * img.Format.Size())
}

func (img *Image) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(img.Rect)) {
		return
	}

	size := img.Format.Size()
	i := img.PixOffset(x, y)
	c1 := img.ColorModel().Convert(c).(*Color)
	copy(img.Pix[i:i+size:i+size], c1.Slice())
}

// Word returns the packed pixel word at (x, y) of an ARGB8888 image.
// It returns 0 for points outside of the image and for images of any
// other format.
func (img *Image) Word(x, y int) uint32 {
	if (img.Format != Format(ARGB8888)) || !(image.Point{x, y}.In(img.Rect)) {
		return 0
	}

	i := img.PixOffset(x, y)
	return binary.LittleEndian.Uint32(img.Pix[i : i+4])
}
