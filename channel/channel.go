// Package channel implements the numeric encodings that a single
// interleaved field of a blob can be stored in, along with a registry
// of the encodings that layouts can name.
package channel

import (
	"errors"
	"slices"
	"strconv"
)

var (
	// ErrNotPreprocessed is returned when a Decoder is read from
	// before its Preprocess method has been called.
	ErrNotPreprocessed = errors.New("channel not preprocessed")

	// ErrIndexOutOfRange is returned when a record index outside of
	// the decoded range is requested.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Kind is a numeric channel encoding. Each Kind is registered at one
// or more byte widths.
type Kind uint8

const (
	// Float channels hold the low-order bytes of a little-endian IEEE
	// 754 single-precision value. Bytes beyond the channel's width
	// are treated as zero, so narrow widths decode to tiny,
	// frequently denormal, values.
	Float Kind = 1 + iota
)

func (k Kind) String() string {
	switch k {
	case Float:
		return "float"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ParseKind returns the Kind with the given name.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "float":
		return Float, true
	default:
		return 0, false
	}
}

// DefaultKind is the Kind used to resolve channels that are named by
// a label rather than by an encoding.
const DefaultKind = Float

// Type is a registered channel encoding at a specific byte width. It
// acts as a prototype from which fresh Decoders are created.
type Type struct {
	Kind  Kind
	Width int
}

// String returns the type's display name, such as "float3".
func (t Type) String() string {
	return t.Kind.String() + strconv.Itoa(t.Width)
}

// New returns a fresh Decoder for the type. Decoders hold per-decode
// state and must not be shared between decodes.
func (t Type) New() Decoder {
	switch t.Kind {
	case Float:
		return &floatDecoder{typ: t}
	default:
		panic("channel: unknown kind " + t.Kind.String())
	}
}

var registry = [...]Type{
	{Kind: Float, Width: 1},
	{Kind: Float, Width: 2},
	{Kind: Float, Width: 3},
	{Kind: Float, Width: 4},
}

// Types returns every registered type in registration order.
func Types() []Type {
	return slices.Clone(registry[:])
}

// Lookup finds a registered type by its display name.
func Lookup(name string) (Type, bool) {
	i := slices.IndexFunc(registry[:], func(t Type) bool { return t.String() == name })
	if i < 0 {
		return Type{}, false
	}
	return registry[i], true
}

// ForWidth finds the registered type of the given kind and width.
func ForWidth(kind Kind, width int) (Type, bool) {
	i := slices.IndexFunc(registry[:], func(t Type) bool { return (t.Kind == kind) && (t.Width == width) })
	if i < 0 {
		return Type{}, false
	}
	return registry[i], true
}

// Decoder extracts one channel from an interleaved buffer and
// normalizes it to the 0-255 range using the channel's own observed
// minimum and maximum.
type Decoder interface {
	// Type returns the type that the Decoder was created from.
	Type() Type

	// Preprocess decodes the channel from every complete record in
	// buf. The channel starts offset bytes into each record and
	// records are stride bytes apart. A trailing partial record is
	// ignored.
	Preprocess(buf []byte, offset, stride int)

	// Len returns the number of decoded records.
	Len() int

	// Range returns the smallest and largest finite decoded values.
	// Infinite values normalize to 0 or 255 depending on their sign.
	Range() (lo, hi float64)

	// Degenerate reports whether the channel has no usable range,
	// such as when every record holds the same value.
	Degenerate() bool

	// Values returns a copy of the decoded values.
	Values() []float64

	// Read returns the normalized value of record i.
	Read(i int) (byte, error)
}
