package ast

import (
	"regexp"
	"strings"

	"github.com/yaklabco/texgen/pkg/source"
)

// inlineDelimRE finds the next inline construct: an emphasis
// underscore, a code fence backtick, a math-span brace, or a complete
// <url> reference. Matching runs over the guarded text, so escaped and
// opaque characters never start a construct.
var inlineDelimRE = regexp.MustCompile("[_`{]|<(?:[\\w$%&/()=?{}\\[\\]*+~#;,:.@|-])+>")

const fence = "```"

// parseInline parses the inline content of [pos, end) into children of
// parent. Unterminated constructs are reported against the opening
// delimiter.
func parseInline(parent Node, buf *source.Buffer, pos, end int) {
	parseInlineContent(parent, buf, pos, end)
}

// parseInlineContent scans for inline constructs until end or until an
// underscore closes the enclosing emphasis. It returns the offset after
// the last consumed byte and whether it stopped on a closing
// underscore.
func parseInlineContent(parent Node, buf *source.Buffer, pos, end int) (int, bool) {
	escaped := buf.EscapedText()
	doc := parent.Root()
	textStart := pos

	flush := func(to int) {
		if to > textStart {
			if _, err := newText(parent, buf.Slice(textStart, to)); err != nil {
				doc.Diagnostics().Errorf(posAt(buf, textStart), "internal: %s", err)
			}
		}
	}

	for pos < end {
		loc := inlineDelimRE.FindStringIndex(escaped[pos:end])
		if loc == nil {
			break
		}
		d, dEnd := pos+loc[0], pos+loc[1]

		switch escaped[d] {
		case '_':
			flush(d)
			if parent.Kind() == KindEmphasis {
				return dEnd, true
			}
			emph := newEmphasis(parent)
			next, closed := parseInlineContent(emph, buf, dEnd, end)
			if !closed {
				doc.Diagnostics().Errorf(posAt(buf, d), "emphasis is never closed")
			}
			emph.finalize(posAt(buf, d))
			pos, textStart = next, next

		case '`':
			if !strings.HasPrefix(escaped[d:end], fence) {
				// A lone backtick is ordinary text.
				pos = dEnd
				continue
			}
			flush(d)
			pos = parseCodeSpan(parent, buf, d, end)
			textStart = pos

		case '{':
			flush(d)
			pos = parseMathSpan(parent, buf, d, end)
			textStart = pos

		case '<':
			flush(d)
			link := &Hyperlink{URL: buf.String()[d+1 : dEnd-1]}
			link.baseNode = newBase(KindHyperlink, link, parent)
			link.text = link.URL
			link.finalize(posAt(buf, d))
			pos, textStart = dEnd, dEnd
		}
	}

	flush(end)
	return end, false
}

// parseCodeSpan consumes a triple-backtick code span starting at the
// opening fence. The interior is stored verbatim.
func parseCodeSpan(parent Node, buf *source.Buffer, d, end int) int {
	escaped := buf.EscapedText()

	interiorStart := d + len(fence)
	next := end
	interiorEnd := end
	if i := strings.Index(escaped[interiorStart:end], fence); i >= 0 {
		interiorEnd = interiorStart + i
		next = interiorEnd + len(fence)
	} else {
		parent.Root().Diagnostics().Warnf(posAt(buf, d), "code span is never closed")
	}

	span := &CodeSpan{Code: buf.String()[interiorStart:interiorEnd]}
	span.baseNode = newBase(KindCodeSpan, span, parent)
	span.text = span.Code
	span.finalize(posAt(buf, d))
	return next
}

// parseMathSpan consumes a brace-delimited formula starting at the
// opening brace. The formula is stored raw; math notation has its own
// rendering rules.
func parseMathSpan(parent Node, buf *source.Buffer, d, end int) int {
	escaped := buf.EscapedText()

	interiorStart := d + 1
	next := end
	interiorEnd := end
	if i := strings.IndexByte(escaped[interiorStart:end], '}'); i >= 0 {
		interiorEnd = interiorStart + i
		next = interiorEnd + 1
	} else {
		parent.Root().Diagnostics().Errorf(posAt(buf, d), "formula is never closed")
	}

	span := &MathSpan{Formula: buf.String()[interiorStart:interiorEnd]}
	span.baseNode = newBase(KindMathSpan, span, parent)
	span.text = span.Formula
	span.finalize(posAt(buf, d))
	return next
}
