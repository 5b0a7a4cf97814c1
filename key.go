// FILE: spicex/key.go
package spicex

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultDelimiter separates segments of a nested configuration key.
const DefaultDelimiter = "."

// Segment is one component of a parsed key. Index carries the pre-parsed
// non-negative integer form of the literal, or -1 when the literal is not
// numeric. Whether a numeric segment acts as an array index or as an object
// key is decided during traversal, based on the value it descends into.
type Segment struct {
	Literal string
	Index   int
}

func newSegment(literal string) Segment {
	seg := Segment{Literal: literal, Index: -1}
	if i, err := strconv.Atoi(literal); err == nil && i >= 0 && !strings.HasPrefix(literal, "+") {
		seg.Index = i
	}
	return seg
}

// Path is an ordered sequence of key segments addressing a location in a
// value tree.
type Path []Segment

// ParsePath splits a dotted key into segments on the given delimiter. Empty
// segments (leading, trailing, or doubled delimiters) are rejected with
// ErrInvalidKey. Escape sequences are not interpreted: a key segment cannot
// itself contain the delimiter.
func ParsePath(key, delimiter string) (Path, error) {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	parts := strings.Split(key, delimiter)
	path := make(Path, len(parts))
	for i, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrInvalidKey, key)
		}
		path[i] = newSegment(part)
	}
	return path, nil
}

// Format renders the path back into its canonical dotted form, for use in
// diagnostics and error messages.
func (p Path) Format(delimiter string) string {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = seg.Literal
	}
	return strings.Join(parts, delimiter)
}
