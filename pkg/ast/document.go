package ast

import (
	"github.com/yaklabco/texgen/pkg/source"
)

// DefaultLanguage is the language nodes are parsed under unless the
// document declares another one.
const DefaultLanguage = "en"

// Document is the root of the tree. It owns the diagnostics sink and
// the current-language state inline content is parsed under.
type Document struct {
	baseNode

	diags    *Diagnostics
	language string
}

// NewDocument creates an empty document. diags receives all parse
// diagnostics; it must not be nil.
func NewDocument(diags *Diagnostics) *Document {
	d := &Document{diags: diags, language: DefaultLanguage}
	d.baseNode = baseNode{kind: KindDocument, self: d, language: DefaultLanguage}
	d.root = d
	return d
}

// Root returns the document itself.
func (d *Document) Root() *Document { return d }

// Diagnostics returns the document's diagnostics sink.
func (d *Document) Diagnostics() *Diagnostics { return d.diags }

// CurrentLanguage returns the language newly created nodes inherit.
func (d *Document) CurrentLanguage() string { return d.language }

// SetLanguage switches the language for subsequently parsed content.
func (d *Document) SetLanguage(lang string) {
	if lang != "" {
		d.language = lang
	}
}

// Parse builds the document tree from buf. Problems are recorded as
// diagnostics; Parse itself only fails on buffer contract violations.
func (d *Document) Parse(buf *source.Buffer) error {
	parseBlocks(d, buf, 0, buf.Len(), documentLevel)

	pos, err := buf.PositionAt(0)
	if err != nil {
		return err
	}
	d.finalize(pos)
	return nil
}

// Section is a numbered sectioning unit. Sections nest according to
// their heading numbers; Level 0 is a top-level section.
type Section struct {
	baseNode

	// Level is the nesting depth derived from the heading number:
	// "1." has level 0, "1.1." level 1, and so on.
	Level int

	// Number is the raw heading number, with "#" components standing
	// for automatic numbering.
	Number string
}

func newSection(parent Node, level int, number string) *Section {
	s := &Section{Level: level, Number: number}
	s.baseNode = newBase(KindSection, s, parent)
	return s
}

// Heading is the title of a section. Its children are inline content.
type Heading struct {
	baseNode
}

func newHeading(parent Node) *Heading {
	h := &Heading{}
	h.baseNode = newBase(KindHeading, h, parent)
	return h
}

// Paragraph is a run of inline content delimited by blank lines.
type Paragraph struct {
	baseNode
}

func newParagraph(parent Node) *Paragraph {
	p := &Paragraph{}
	p.baseNode = newBase(KindParagraph, p, parent)
	return p
}

// Text is a leaf of plain text. Its content has passed through the post
// substitution phase.
type Text struct {
	baseNode
}

// newText creates a finalized text leaf from a buffer slice. The slice
// is finalized here, which applies the post substitution phase exactly
// once per leaf.
func newText(parent Node, slice *source.Buffer) (*Text, error) {
	t := &Text{}
	t.baseNode = newBase(KindText, t, parent)

	final, err := slice.Finalize()
	if err != nil {
		return nil, err
	}
	pos, err := final.PositionAt(0)
	if err != nil {
		return nil, err
	}
	t.text = final.String()
	t.finalize(pos)
	return t, nil
}

// Emphasis is inline content delimited by underscores. Emphases nest.
type Emphasis struct {
	baseNode
}

func newEmphasis(parent Node) *Emphasis {
	e := &Emphasis{}
	e.baseNode = newBase(KindEmphasis, e, parent)
	return e
}

// Hyperlink is a leaf for a <url> reference. Its text is the URL
// itself.
type Hyperlink struct {
	baseNode

	URL string
}

// MathSpan is a leaf holding an inline formula delimited by braces.
type MathSpan struct {
	baseNode

	// Formula is the raw formula text between the braces.
	Formula string
}

// CodeSpan is a leaf holding verbatim text delimited by triple
// backticks. Its content bypasses all substitution.
type CodeSpan struct {
	baseNode

	// Code is the verbatim interior of the span.
	Code string
}
