// Package ast defines the document tree and the recursive-descent
// parser that builds it from a position-tracked source buffer.
package ast

// Kind identifies the node types of the document tree. The set is
// closed; backends dispatch on it.
type Kind int

const (
	KindDocument Kind = iota
	KindSection
	KindHeading
	KindParagraph
	KindText
	KindEmphasis
	KindHyperlink
	KindMathSpan
	KindCodeSpan
)

var kindNames = [...]string{
	KindDocument:  "Document",
	KindSection:   "Section",
	KindHeading:   "Heading",
	KindParagraph: "Paragraph",
	KindText:      "Text",
	KindEmphasis:  "Emphasis",
	KindHyperlink: "Hyperlink",
	KindMathSpan:  "MathSpan",
	KindCodeSpan:  "CodeSpan",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}
