package source

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/texgen/pkg/subst"
)

// Span is a half-open byte range [Start, End) of a Buffer's current
// text.
type Span struct {
	Start, End int
}

func (s Span) contains(i int) bool { return i >= s.Start && i < s.End }

func (s Span) overlaps(start, end int) bool { return start < s.End && end > s.Start }

// Buffer is a string that remembers where each of its bytes came from.
// It carries the current (possibly rewritten) text, the original text it
// was derived from, a sparse map from current offsets to original
// positions, the set of escaped offsets, and the opaque (verbatim)
// ranges produced by code fences. Slicing, indexing, and concatenation
// all preserve this bookkeeping.
//
// A Buffer passes through two substitution phases. NewFromRaw applies
// the pre phase while normalizing the raw input; Finalize applies the
// post phase exactly once, typically right before the text becomes part
// of the document tree.
type Buffer struct {
	text      string
	original  string
	positions map[int]PositionMarker
	escaped   map[int]struct{}
	opaque    []Span
	tables    *subst.Set
	finalized bool

	escapedText string
	haveEscaped bool
}

// String returns the current text.
func (b *Buffer) String() string { return b.text }

// Len returns the byte length of the current text.
func (b *Buffer) Len() int { return len(b.text) }

// Original returns the original text this buffer was derived from.
func (b *Buffer) Original() string { return b.original }

// Tables returns the substitution table set the buffer was built with.
func (b *Buffer) Tables() *subst.Set { return b.tables }

// Finalized reports whether the post substitution phase has run.
func (b *Buffer) Finalized() bool { return b.finalized }

// PositionAt maps a byte offset of the current text to its original
// source position. Offsets up to and including Len() are valid; Len()
// denotes the position just past the end. The lookup finds the nearest
// recorded marker at or before i and advances both the original index
// and the column by the distance to it.
func (b *Buffer) PositionAt(i int) (PositionMarker, error) {
	if i < 0 || i > len(b.text) {
		return PositionMarker{}, fmt.Errorf("%w: %d not in [0, %d]", ErrOutOfRange, i, len(b.text))
	}
	if len(b.positions) == 0 {
		return PositionMarker{}, nil
	}

	closest := -1
	for k := range b.positions {
		if k <= i && k > closest {
			closest = k
		}
	}
	if closest < 0 {
		return PositionMarker{}, fmt.Errorf("%w: no marker at or before %d", ErrOutOfRange, i)
	}

	m := b.positions[closest].Transpose(i - closest)
	m.Column += i - closest
	return m, nil
}

// IsEscaped reports whether the byte at offset i is protected from
// substitution and from structural interpretation, either because it
// was explicitly escaped or because it lies inside an opaque range.
func (b *Buffer) IsEscaped(i int) bool {
	if _, ok := b.escaped[i]; ok {
		return true
	}
	return b.inOpaque(i)
}

// IsEscapedRange reports whether any byte in [start, end) is escaped or
// inside an opaque range.
func (b *Buffer) IsEscapedRange(start, end int) bool {
	for i := range b.escaped {
		if i >= start && i < end {
			return true
		}
	}
	for _, s := range b.opaque {
		if s.overlaps(start, end) {
			return true
		}
	}
	return false
}

func (b *Buffer) inOpaque(i int) bool {
	for _, s := range b.opaque {
		if s.contains(i) {
			return true
		}
	}
	return false
}

// OpaqueRanges returns the opaque spans of the current text, ordered by
// start offset. The returned slice must not be modified.
func (b *Buffer) OpaqueRanges() []Span { return b.opaque }

// EscapedText returns the current text with every escaped rune and every
// opaque byte replaced by NUL bytes of the same width. Regex matching
// against this guarded text yields byte offsets that remain valid for
// the real text while never matching protected content.
func (b *Buffer) EscapedText() string {
	if b.haveEscaped {
		return b.escapedText
	}

	masked := []byte(b.text)
	for i := range b.escaped {
		if i >= len(b.text) {
			continue
		}
		_, width := utf8.DecodeRuneInString(b.text[i:])
		for j := range width {
			masked[i+j] = 0
		}
	}
	for _, s := range b.opaque {
		for j := s.Start; j < s.End && j < len(masked); j++ {
			masked[j] = 0
		}
	}

	b.escapedText = string(masked)
	b.haveEscaped = true
	return b.escapedText
}

// Slice returns the sub-buffer for the byte range [start, end) of the
// current text. All position, escape, and opaque bookkeeping is carried
// over, re-keyed to the new text. Out-of-range bounds are clamped.
func (b *Buffer) Slice(start, end int) *Buffer {
	start = max(start, 0)
	end = min(end, len(b.text))
	if end < start {
		end = start
	}

	startMarker, _ := b.PositionAt(start)
	endMarker, _ := b.PositionAt(end)

	// Both boundaries get fresh markers: the start so the slice can
	// resolve offset 0, the end so PositionAt(Len()) still answers with
	// the position just past the slice instead of extrapolating across
	// line breaks from the last interior marker.
	positions := map[int]PositionMarker{
		0:           startMarker.Transpose(-startMarker.Index),
		end - start: endMarker.Transpose(-startMarker.Index),
	}
	for k, m := range b.positions {
		if k > start && k < end {
			positions[k-start] = m.Transpose(-startMarker.Index)
		}
	}

	escaped := map[int]struct{}{}
	for k := range b.escaped {
		if k >= start && k < end {
			escaped[k-start] = struct{}{}
		}
	}

	var opaque []Span
	for _, s := range b.opaque {
		lo, hi := max(s.Start, start), min(s.End, end)
		if lo < hi {
			opaque = append(opaque, Span{lo - start, hi - start})
		}
	}

	return &Buffer{
		text:      b.text[start:end],
		original:  b.original[startMarker.Index:endMarker.Index],
		positions: positions,
		escaped:   escaped,
		opaque:    opaque,
		tables:    b.tables,
		finalized: b.finalized,
	}
}

// Index returns the single-rune sub-buffer at byte offset i.
func (b *Buffer) Index(i int) *Buffer {
	_, width := utf8.DecodeRuneInString(b.text[i:])
	return b.Slice(i, i+width)
}

// Concat returns the concatenation of b and other. Both buffers must
// share the same substitution table set; the position, escape, and
// opaque maps of other are re-keyed onto the combined text.
func (b *Buffer) Concat(other *Buffer) (*Buffer, error) {
	if b.tables != other.tables {
		return nil, ErrTableMismatch
	}

	offset := len(b.text)
	origOffset := len(b.original)

	positions := make(map[int]PositionMarker, len(b.positions)+len(other.positions))
	for k, m := range b.positions {
		positions[k] = m
	}
	for k, m := range other.positions {
		if k == 0 {
			// The seam marker is only needed when the junction is a
			// genuine discontinuity in the source.
			if end, err := b.PositionAt(offset); err == nil && end.Same(m) {
				continue
			}
		}
		positions[k+offset] = m.Transpose(origOffset)
	}

	escaped := make(map[int]struct{}, len(b.escaped)+len(other.escaped))
	for k := range b.escaped {
		escaped[k] = struct{}{}
	}
	for k := range other.escaped {
		escaped[k+offset] = struct{}{}
	}

	opaque := make([]Span, 0, len(b.opaque)+len(other.opaque))
	opaque = append(opaque, b.opaque...)
	for _, s := range other.opaque {
		opaque = append(opaque, Span{s.Start + offset, s.End + offset})
	}

	return &Buffer{
		text:      b.text + other.text,
		original:  b.original + other.original,
		positions: positions,
		escaped:   escaped,
		opaque:    opaque,
		tables:    b.tables,
		finalized: b.finalized || other.finalized,
	}, nil
}

// Empty returns an empty buffer sharing b's substitution tables and
// finalization state. It is the neutral element of Concat.
func (b *Buffer) Empty() *Buffer {
	return &Buffer{
		positions: map[int]PositionMarker{},
		escaped:   map[int]struct{}{},
		tables:    b.tables,
		finalized: b.finalized,
	}
}

// markerKeys returns the recorded offsets in ascending order. Test and
// debug helper.
func (b *Buffer) markerKeys() []int {
	keys := make([]int, 0, len(b.positions))
	for k := range b.positions {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Dump renders the buffer's internals for debugging.
func (b *Buffer) Dump() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "text: %q\n", b.text)
	fmt.Fprintf(&sb, "original: %q\n", b.original)
	for _, k := range b.markerKeys() {
		m := b.positions[k]
		fmt.Fprintf(&sb, "  %4d -> line %d col %d index %d\n", k, m.Line, m.Column, m.Index)
	}
	if len(b.escaped) > 0 {
		fmt.Fprintf(&sb, "escaped: %v\n", sortedKeys(b.escaped))
	}
	for _, s := range b.opaque {
		fmt.Fprintf(&sb, "opaque: [%d, %d)\n", s.Start, s.End)
	}
	return sb.String()
}

func sortedKeys(set map[int]struct{}) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
