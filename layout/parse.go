package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ClauseError is returned when a specific clause of a layout can't be
// used.
type ClauseError struct {
	// Index is the position of the clause in the layout, counting
	// empty clauses.
	Index  int
	Clause string
	Err    error
}

func (err *ClauseError) Error() string {
	return fmt.Sprintf("clause %v (%q): %v", err.Index, err.Clause, err.Err)
}

func (err *ClauseError) Unwrap() error {
	return err.Err
}

// ParseOptions controls the behavior of layout parsing.
type ParseOptions struct {
	// Permissive causes clauses that don't resolve to a channel type
	// to be skipped instead of failing the parse. Later channels move
	// into the skipped clause's role.
	Permissive bool
}

// Parse parses a layout using the default options.
func Parse(text string) (Layout, error) {
	return ParseOptions{}.Parse(text)
}

// Parse parses text into a Layout. Whitespace around clauses is
// ignored, as are empty clauses.
func (opts ParseOptions) Parse(text string) (Layout, error) {
	var l Layout
	for i, clause := range strings.Split(text, ";") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}

		spec, err := ParseSpec(clause)
		if err != nil {
			return Layout{}, &ClauseError{Index: i, Clause: clause, Err: err}
		}

		c, err := Resolve(spec)
		if err != nil {
			if opts.Permissive && errors.Is(err, ErrUnknownChannelType) {
				continue
			}
			return Layout{}, &ClauseError{Index: i, Clause: clause, Err: err}
		}

		err = l.Add(c)
		if err != nil {
			return Layout{}, &ClauseError{Index: i, Clause: clause, Err: err}
		}
	}

	return l, nil
}

// ParseSpec parses a single name:width clause.
func ParseSpec(clause string) (Spec, error) {
	name, width, ok := strings.Cut(clause, ":")
	if !ok {
		return Spec{}, fmt.Errorf("%w: missing ':'", ErrMalformedClause)
	}
	if strings.Contains(width, ":") {
		return Spec{}, fmt.Errorf("%w: too many ':'", ErrMalformedClause)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return Spec{}, fmt.Errorf("%w: missing channel name", ErrMalformedClause)
	}

	w, err := strconv.Atoi(strings.TrimSpace(width))
	if err != nil {
		return Spec{}, fmt.Errorf("%w: width: %w", ErrMalformedClause, err)
	}
	if w < 0 {
		return Spec{}, fmt.Errorf("%w: negative width %v", ErrMalformedClause, w)
	}

	return Spec{Name: name, Width: w}, nil
}
