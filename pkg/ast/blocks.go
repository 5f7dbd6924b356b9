package ast

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/texgen/pkg/source"
)

// documentLevel is the virtual nesting level of the document root. It
// is below any section level, so every heading opens a section under
// the root.
const documentLevel = -2

var (
	blankLineRE = regexp.MustCompile(`\n[ \t\n]*\n`)
	underlineRE = regexp.MustCompile(`(?m)^[ \t]*={4,}[ \t]*$`)

	// trailingBlankRE matches the blank tail of the document's last
	// block, which has no blank-line terminator to exclude it.
	trailingBlankRE = regexp.MustCompile(`\n[ \t\n]*$`)

	// A heading starts with a dot-separated section number whose
	// components are digits or "#" for automatic numbering.
	sectionNumberRE = regexp.MustCompile(`^[ \t]*(?P<numbers>(?:(?:\d+|#)\.)*(?:\d+|#))(?:\.|[ \t\n])[ \t\n]*`)
)

// parseBlocks consumes blank-line separated blocks of buf in
// [pos, end) and attaches them to parent. A heading whose level is not
// strictly greater than level ends the run; the returned offset lets
// the caller resume there.
//
// Structural scanning happens on the guarded text, so escaped and
// opaque characters never form block boundaries.
func parseBlocks(parent Node, buf *source.Buffer, pos, end, level int) int {
	escaped := buf.EscapedText()

	for {
		pos = skipBlank(escaped, pos, end)
		if pos >= end {
			return pos
		}

		blockEnd, nextPos := end, end
		if loc := blankLineRE.FindStringIndex(escaped[pos:end]); loc != nil {
			blockEnd, nextPos = pos+loc[0], pos+loc[1]
		} else if loc := trailingBlankRE.FindStringIndex(escaped[pos:end]); loc != nil {
			// The last block ends at its content, like every other
			// block ends before its blank-line run.
			blockEnd = pos + loc[0]
		}

		if underStart, ok := headingUnderline(escaped, pos, blockEnd); ok {
			resume, action := parseHeading(parent, buf, pos, underStart, nextPos, end, level)
			switch action {
			case headingOpened:
				pos = resume
				continue
			case headingCloses:
				// The heading belongs to an enclosing level.
				return pos
			}
			// headingInvalid degrades to a paragraph.
		}

		p := newParagraph(parent)
		parseInline(p, buf, pos, blockEnd)
		p.finalize(posAt(buf, pos))
		pos = nextPos
	}
}

// headingUnderline reports whether the block [pos, blockEnd) ends with
// a marker line of equals signs, returning the offset of that line.
func headingUnderline(escaped string, pos, blockEnd int) (int, bool) {
	loc := underlineRE.FindStringIndex(escaped[pos:blockEnd])
	if loc == nil || pos+loc[1] != blockEnd {
		return 0, false
	}
	return pos + loc[0], true
}

type headingAction int

const (
	headingOpened headingAction = iota
	headingCloses
	headingInvalid
)

// parseHeading handles one heading block. A section is opened only when
// the heading's level is strictly greater than level; a heading of an
// enclosing level is left for the caller, and a heading without a
// section number is a parse error.
func parseHeading(parent Node, buf *source.Buffer, pos, underStart, nextPos, end, level int) (int, headingAction) {
	escaped := buf.EscapedText()

	m := sectionNumberRE.FindStringSubmatch(escaped[pos:underStart])
	if m == nil {
		parent.Root().Diagnostics().Errorf(posAt(buf, pos),
			"section marker line without a section number")
		return pos, headingInvalid
	}
	number := m[sectionNumberRE.SubexpIndex("numbers")]
	headingLevel := strings.Count(number, ".")
	if headingLevel <= level {
		return pos, headingCloses
	}

	sec := newSection(parent, headingLevel, number)
	heading := newHeading(sec)

	titleStart := pos + len(m[0])
	titleEnd := underStart
	for titleEnd > titleStart {
		r, w := utf8.DecodeLastRuneInString(escaped[titleStart:titleEnd])
		if !unicode.IsSpace(r) {
			break
		}
		titleEnd -= w
	}
	parseInline(heading, buf, titleStart, titleEnd)
	heading.finalize(posAt(buf, titleStart))

	resume := parseBlocks(sec, buf, nextPos, end, headingLevel)
	sec.finalize(posAt(buf, pos))
	return resume, headingOpened
}

func skipBlank(escaped string, pos, end int) int {
	for pos < end {
		r, w := utf8.DecodeRuneInString(escaped[pos:end])
		if !unicode.IsSpace(r) {
			return pos
		}
		pos += w
	}
	return pos
}

func posAt(buf *source.Buffer, i int) source.PositionMarker {
	m, _ := buf.PositionAt(i)
	return m
}
