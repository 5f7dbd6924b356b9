package source

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/texgen/pkg/subst"
)

// codeFence delimits verbatim (opaque) text.
const codeFence = "```"

var entityRE = regexp.MustCompile(`^((0x(?P<hex>[0-9a-fA-F]+))|(#(?P<dec>[0-9]+)));`)

// malformedEntityRE matches the longest plausible prefix of a botched
// numeric entity so the scanner can skip past it after reporting.
var malformedEntityRE = regexp.MustCompile(`^(0x[0-9a-fA-F]*|#[0-9]*);?`)

// NewFromRaw normalizes raw source text into a Buffer, applying the pre
// substitution phase of tables along the way. Left to right, at each
// point the first applicable rule wins:
//
//   - comment lines (".." alone or ".. ..." at the start of a line) are
//     dropped,
//   - a doubled backslash becomes one literal, escaped backslash,
//   - numeric entities \0xHH; and \#DD; resolve to their code point,
//   - the earliest (longest on ties) pre-table match is replaced,
//   - code fences toggle opaque mode; inside it only \` is special,
//   - a lone backslash defers its escape to the next non-blank
//     character,
//   - everything else is copied verbatim.
//
// CRLF line endings are normalized to a space plus newline so byte
// columns stay faithful to the raw input. Recoverable problems such as
// malformed entities are reported as Issues; construction always
// succeeds.
func NewFromRaw(raw, url string, tables *subst.Set) (*Buffer, []Issue) {
	s := &prescanner{
		src:       raw,
		url:       url,
		table:     tables.Pre,
		out:       make([]byte, 0, len(raw)),
		positions: map[int]PositionMarker{},
		escaped:   map[int]struct{}{},
	}
	s.run()

	return &Buffer{
		text:      string(s.out),
		original:  raw,
		positions: s.positions,
		escaped:   s.escaped,
		opaque:    s.opaque,
		tables:    tables,
	}, s.issues
}

type prescanner struct {
	src   string
	url   string
	table *subst.Table

	out       []byte
	positions map[int]PositionMarker
	escaped   map[int]struct{}
	opaque    []Span
	issues    []Issue

	pos           int
	line          int
	lineStart     int
	deferred      bool
	inCode        bool
	codeStart     int
	codeFencePos  PositionMarker
	nextMatch     subst.Match
	haveNextMatch bool
}

func (s *prescanner) marker() PositionMarker {
	return PositionMarker{URL: s.url, Line: s.line, Column: s.pos - s.lineStart, Index: s.pos}
}

func (s *prescanner) emit(text string) {
	s.out = append(s.out, text...)
}

// resync records that the next output byte originates at the current
// input position. Required after every operation where input and output
// do not advance in lockstep.
func (s *prescanner) resync() {
	s.positions[len(s.out)] = s.marker()
}

// escapeNext marks the next output byte as escaped. Must be called
// before the corresponding emit.
func (s *prescanner) escapeNext() {
	s.escaped[len(s.out)] = struct{}{}
}

// startLine begins a new input line, dropping it entirely if it is a
// comment line.
func (s *prescanner) startLine() {
	s.line++
	s.lineStart = s.pos
	if n := commentLineLen(s.src[s.pos:]); n > 0 {
		s.pos += n
	}
	s.resync()
}

// commentLineLen returns the length of the comment-line prefix of rest,
// or 0 if rest does not start with a comment line. The trailing line
// break is not part of the comment.
func commentLineLen(rest string) int {
	if !strings.HasPrefix(rest, "..") {
		return 0
	}
	end := strings.IndexAny(rest, "\r\n")
	if end < 0 {
		end = len(rest)
	}
	if end == 2 || (end > 2 && rest[2] == ' ') {
		return end
	}
	return 0
}

// match returns the next pre-table match at or after the current
// position.
func (s *prescanner) match() (subst.Match, bool) {
	if !s.haveNextMatch || s.pos > s.nextMatch.Start {
		s.nextMatch, s.haveNextMatch = s.table.EarliestMatch(s.src, s.pos)
		if !s.haveNextMatch {
			s.nextMatch = subst.Match{Start: len(s.src)}
		}
	}
	return s.nextMatch, s.haveNextMatch && s.nextMatch.Start >= s.pos
}

func (s *prescanner) run() {
	s.startLine()

	for s.pos < len(s.src) {
		r, width := utf8.DecodeRuneInString(s.src[s.pos:])

		if unicode.IsSpace(r) {
			s.whitespace(r, width)
			continue
		}

		if s.inCode {
			s.verbatim(r, width)
			continue
		}

		if r == '\\' && s.backslash() {
			continue
		}

		if m, ok := s.match(); ok && m.Start == s.pos {
			if s.deferred {
				s.escapeNext()
				s.deferred = false
			}
			s.emit(m.Replacement)
			s.pos += m.Length
			s.resync()
			continue
		}

		if r == '\\' {
			s.loneBackslash()
			continue
		}

		if !s.deferred && strings.HasPrefix(s.src[s.pos:], codeFence) {
			s.codeFencePos = s.marker()
			s.emit(codeFence)
			s.pos += len(codeFence)
			s.inCode = true
			s.codeStart = len(s.out)
			continue
		}

		if s.deferred {
			s.escapeNext()
			s.deferred = false
		}
		s.emit(string(r))
		s.pos += width
	}

	if s.inCode {
		s.opaque = append(s.opaque, Span{s.codeStart, len(s.out)})
		s.issues = append(s.issues, Issue{
			Position: s.codeFencePos,
			Message:  "code fence is never closed",
			Warning:  true,
		})
	}
}

func (s *prescanner) whitespace(r rune, width int) {
	switch {
	case s.deferred && (r == ' ' || r == '\t'):
		// A deferred escape swallows blanks until it finds its
		// character.
		s.pos += width
		s.resync()
	case r == '\n' || r == '\r':
		if strings.TrimSpace(s.src[s.lineStart:s.pos]) == "" {
			s.deferred = false
		}
		if r == '\r' && strings.HasPrefix(s.src[s.pos:], "\r\n") {
			s.emit(" ")
			s.pos++
		}
		s.emit("\n")
		s.pos++
		s.startLine()
	default:
		s.emit(string(r))
		s.pos += width
	}
}

// verbatim handles one step inside an opaque code span.
func (s *prescanner) verbatim(r rune, width int) {
	rest := s.src[s.pos:]
	switch {
	case strings.HasPrefix(rest, codeFence):
		s.opaque = append(s.opaque, Span{s.codeStart, len(s.out)})
		s.emit(codeFence)
		s.pos += len(codeFence)
		s.inCode = false
	case strings.HasPrefix(rest, "\\`"):
		// The only escape inside code: a literal backtick.
		s.pos++
		s.resync()
		s.escapeNext()
		s.emit("`")
		s.pos++
	default:
		s.emit(string(r))
		s.pos += width
	}
}

// backslash handles doubled backslashes and numeric entities. It
// reports false when the backslash is lone and must be dealt with after
// substitution matching.
func (s *prescanner) backslash() bool {
	rest := s.src[s.pos+1:]

	if strings.HasPrefix(rest, "\\") {
		s.escapeNext()
		s.emit("\\")
		s.pos += 2
		s.resync()
		s.deferred = false
		return true
	}

	if m := entityRE.FindStringSubmatch(rest); m != nil {
		r, err := entityRune(m)
		if err != nil {
			s.issues = append(s.issues, Issue{Position: s.marker(), Message: err.Error()})
			r = utf8.RuneError
		}
		if s.deferred {
			s.escapeNext()
			s.deferred = false
		}
		s.emit(string(r))
		s.pos += 1 + len(m[0])
		s.resync()
		return true
	}

	if m := malformedEntityRE.FindString(rest); m != "" {
		s.issues = append(s.issues, Issue{
			Position: s.marker(),
			Message:  fmt.Sprintf("malformed numeric entity %q", "\\"+m),
		})
		s.emit(string(utf8.RuneError))
		s.pos += 1 + len(m)
		s.resync()
		s.deferred = false
		return true
	}

	return false
}

// loneBackslash applies the single-backslash escape: the next character
// is copied but either consumed out of an upcoming substitution match
// or marked escaped; a backslash at the end of a line defers the escape
// across the line break.
func (s *prescanner) loneBackslash() {
	s.deferred = false

	next, nextWidth := utf8.DecodeRuneInString(s.src[s.pos+1:])
	m, haveMatch := s.match()

	switch {
	case haveMatch && s.pos+1 == m.Start:
		// Copying the first character verbatim defeats the match
		// without marking anything escaped.
		s.pos++
		s.resync()
		s.emit(string(next))
		s.pos += nextWidth
	case nextWidth > 0 && !unicode.IsSpace(next):
		s.pos++
		s.resync()
		s.escapeNext()
		s.emit(string(next))
		s.pos += nextWidth
	default:
		s.pos++
		s.resync()
		s.deferred = true
	}
}

func entityRune(m []string) (rune, error) {
	var n int64
	var err error
	for i, name := range entityRE.SubexpNames() {
		switch {
		case name == "hex" && m[i] != "":
			n, err = strconv.ParseInt(m[i], 16, 32)
		case name == "dec" && m[i] != "":
			n, err = strconv.ParseInt(m[i], 10, 32)
		}
	}
	if err != nil || !utf8.ValidRune(rune(n)) {
		return 0, fmt.Errorf("invalid code point in numeric entity %q", "\\"+m[0])
	}
	return rune(n), nil
}
