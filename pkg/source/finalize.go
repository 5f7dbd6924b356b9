package source

import (
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/texgen/pkg/subst"
)

// Finalize applies the post substitution phase and returns the resulting
// buffer. Post rules never touch whitespace, escaped characters, or
// opaque ranges; everything else is rewritten with the same
// earliest-longest semantics as the pre phase. A buffer can be finalized
// only once; a second call returns ErrRefinalized.
func (b *Buffer) Finalize() (*Buffer, error) {
	if b.finalized {
		return nil, ErrRefinalized
	}

	f := &finalizer{
		buf:       b,
		table:     b.tables.Post,
		out:       make([]byte, 0, len(b.text)),
		positions: map[int]PositionMarker{},
		escaped:   map[int]struct{}{},
	}
	f.run()

	return &Buffer{
		text:      string(f.out),
		original:  b.original,
		positions: f.positions,
		escaped:   f.escaped,
		opaque:    f.opaque,
		tables:    b.tables,
		finalized: true,
	}, nil
}

type finalizer struct {
	buf   *Buffer
	table *subst.Table

	out       []byte
	positions map[int]PositionMarker
	escaped   map[int]struct{}
	opaque    []Span

	pos           int
	opqIdx        int
	opqStart      int
	nextMatch     subst.Match
	haveNextMatch bool
}

func (f *finalizer) run() {
	text := f.buf.text

	for f.pos < len(text) {
		f.carryBookkeeping()

		r, width := utf8.DecodeRuneInString(text[f.pos:])

		if f.insideOpaque() || unicode.IsSpace(r) {
			f.copy(r, width)
			continue
		}

		if m, ok := f.match(); ok && m.Start == f.pos &&
			!f.buf.IsEscapedRange(f.pos, f.pos+m.Length) {
			f.out = append(f.out, m.Replacement...)
			f.pos += m.Length
			// Matches may straddle recorded markers; re-anchor unless
			// the next input byte carries its own marker.
			if _, recorded := f.buf.positions[f.pos]; !recorded {
				if marker, err := f.buf.PositionAt(f.pos); err == nil {
					f.positions[len(f.out)] = marker
				}
			}
			continue
		}

		f.copy(r, width)
	}
	f.carryBookkeeping()
}

// carryBookkeeping re-keys any marker, escape flag, or opaque boundary
// recorded at the current input offset onto the current output offset.
func (f *finalizer) carryBookkeeping() {
	if m, ok := f.buf.positions[f.pos]; ok {
		f.positions[len(f.out)] = m
	}
	if _, ok := f.buf.escaped[f.pos]; ok {
		f.escaped[len(f.out)] = struct{}{}
	}
	if f.opqIdx < len(f.buf.opaque) {
		span := f.buf.opaque[f.opqIdx]
		if span.Start == f.pos {
			f.opqStart = len(f.out)
		}
		if span.End == f.pos {
			f.opaque = append(f.opaque, Span{f.opqStart, len(f.out)})
			f.opqIdx++
		}
	}
}

func (f *finalizer) insideOpaque() bool {
	return f.opqIdx < len(f.buf.opaque) && f.buf.opaque[f.opqIdx].contains(f.pos)
}

func (f *finalizer) copy(r rune, width int) {
	f.out = utf8.AppendRune(f.out, r)
	f.pos += width
}

func (f *finalizer) match() (subst.Match, bool) {
	if !f.haveNextMatch || f.pos > f.nextMatch.Start {
		f.nextMatch, f.haveNextMatch = f.table.EarliestMatch(f.buf.text, f.pos)
		if !f.haveNextMatch {
			f.nextMatch = subst.Match{Start: len(f.buf.text)}
		}
	}
	return f.nextMatch, f.haveNextMatch && f.nextMatch.Start >= f.pos
}
