// Package layout describes how the channels of a blob are interleaved
// and parses the textual form of that description.
//
// A layout is written as a ';' separated list of name:width clauses,
// such as
//
//	x:4; y:4
//
// Each clause describes one channel. Channels are stored one after
// another in every record, so the example above describes 8 byte
// records holding two 4 byte channels. A channel's position in the
// layout decides its role in the composed pixel: the first is red,
// the second green and the third blue.
package layout

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"deedles.dev/blobviz/channel"
)

// MaxChannels is the number of channel roles that a layout can fill.
const MaxChannels = 3

var (
	// ErrMalformedClause is returned when a clause is not of the form
	// name:width, where width is a non-negative decimal integer.
	ErrMalformedClause = errors.New("malformed clause")

	// ErrUnknownChannelType is returned when a clause doesn't resolve
	// to a registered channel type.
	ErrUnknownChannelType = errors.New("unknown channel type")

	// ErrTooManyChannels is returned when a layout would have more
	// than MaxChannels channels.
	ErrTooManyChannels = fmt.Errorf("too many channels (max %v)", MaxChannels)
)

// Role is the color that a channel contributes to in a composed
// pixel.
type Role int

const (
	Red Role = iota
	Green
	Blue
)

func (r Role) String() string {
	switch r {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	default:
		return "Role(" + strconv.Itoa(int(r)) + ")"
	}
}

// Spec is a single name:width clause of a layout.
type Spec struct {
	Name  string
	Width int
}

func (s Spec) String() string {
	return s.Name + ":" + strconv.Itoa(s.Width)
}

// Channel is a Spec that has been resolved to a registered channel
// type.
type Channel struct {
	Spec
	Type channel.Type
}

// Resolve finds the channel type for spec. If spec's name is the name
// of a channel kind, such as "float", the registered type with the
// matching display name is used. Any other name is treated as a label
// and the type is found by width amongst the types of
// channel.DefaultKind.
func Resolve(spec Spec) (Channel, error) {
	if _, ok := channel.ParseKind(spec.Name); ok {
		name := spec.Name + strconv.Itoa(spec.Width)
		typ, ok := channel.Lookup(name)
		if !ok {
			return Channel{}, fmt.Errorf("%w: %q", ErrUnknownChannelType, name)
		}
		return Channel{Spec: spec, Type: typ}, nil
	}

	typ, ok := channel.ForWidth(channel.DefaultKind, spec.Width)
	if !ok {
		return Channel{}, fmt.Errorf("%w: no %v channel is %v bytes wide", ErrUnknownChannelType, channel.DefaultKind, spec.Width)
	}
	return Channel{Spec: spec, Type: typ}, nil
}

// Layout is an ordered set of at most MaxChannels channels. The zero
// value is an empty layout.
type Layout struct {
	channels [MaxChannels]Channel
	n        int
}

// New returns a layout containing the given channels in order.
func New(channels ...Channel) (Layout, error) {
	var l Layout
	for _, c := range channels {
		err := l.Add(c)
		if err != nil {
			return Layout{}, err
		}
	}
	return l, nil
}

// Add appends c to the layout, giving it the next unfilled role.
func (l *Layout) Add(c Channel) error {
	if l.n >= MaxChannels {
		return ErrTooManyChannels
	}

	l.channels[l.n] = c
	l.n++
	return nil
}

// Len returns the number of channels in the layout.
func (l Layout) Len() int { return l.n }

// Channel returns the channel that fills role r, if any.
func (l Layout) Channel(r Role) (Channel, bool) {
	if (r < 0) || (int(r) >= l.n) {
		return Channel{}, false
	}
	return l.channels[r], true
}

// Channels returns the channels of the layout in order.
func (l Layout) Channels() []Channel {
	return append([]Channel(nil), l.channels[:l.n]...)
}

// All yields each filled role along with its channel.
func (l Layout) All() iter.Seq2[Role, Channel] {
	return func(yield func(Role, Channel) bool) {
		for i, c := range l.channels[:l.n] {
			if !yield(Role(i), c) {
				return
			}
		}
	}
}

// Stride returns the size of a single record in bytes.
func (l Layout) Stride() (stride int) {
	for _, c := range l.channels[:l.n] {
		stride += c.Type.Width
	}
	return stride
}

// Offset returns the offset in bytes of the channel filling role r
// from the start of a record.
func (l Layout) Offset(r Role) (offset int) {
	for _, c := range l.channels[:max(0, min(int(r), l.n))] {
		offset += c.Type.Width
	}
	return offset
}

// String returns the layout in a form that Parse accepts.
func (l Layout) String() string {
	var buf strings.Builder
	for i, c := range l.channels[:l.n] {
		if i > 0 {
			buf.WriteByte(';')
		}
		buf.WriteString(c.Spec.String())
	}
	return buf.String()
}
