// Package source implements the position-tracked text buffer ("excerpt")
// at the heart of texgen. A Buffer survives character-level rewriting
// (input-method substitution, entity resolution, escaping) while still
// being able to answer, for any byte offset of the current text, which
// file, line, and column that byte originated from.
package source

import "fmt"

// PositionMarker is a position in an original source document. Its main
// purpose is expressive error messages pointing at the exact spot in the
// source where a problem was detected.
type PositionMarker struct {
	// URL names the resource the position comes from, usually a file path.
	URL string

	// Line is the 1-based line number.
	Line int

	// Column is the 0-based byte column within the line.
	Column int

	// Index is the byte offset within the original text of the Buffer
	// this marker belongs to. It is bookkeeping for slicing and
	// concatenation and is excluded from Same.
	Index int
}

// String renders the marker the way diagnostics print it.
func (m PositionMarker) String() string {
	return fmt.Sprintf("file %q, line %d, column %d", m.URL, m.Line, m.Column)
}

// Same reports whether two markers denote the same source position.
// Index is deliberately ignored.
func (m PositionMarker) Same(other PositionMarker) bool {
	return m.URL == other.URL && m.Line == other.Line && m.Column == other.Column
}

// Transpose returns a copy of the marker with Index shifted by offset.
// Offset may be negative.
func (m PositionMarker) Transpose(offset int) PositionMarker {
	m.Index += offset
	return m
}
