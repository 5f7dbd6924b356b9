package ast

import (
	"fmt"
	"strings"

	"github.com/yaklabco/texgen/pkg/source"
)

// Node is a vertex of the document tree. The set of implementations is
// closed; new node kinds require a new Kind constant and backend
// strategies to match.
//
// Nodes are attached to their parent at construction time, before their
// own content is parsed, so ancestors are always complete when a node
// parses. Text and Position become available only once the node is
// finalized; accessing them earlier is a programming error and panics.
type Node interface {
	Kind() Kind
	Parent() Node
	Root() *Document
	Children() []Node

	// Language is the text language the node was parsed under, an ISO
	// 639-1 code such as "en".
	Language() string

	// TypePath is the dot-joined kind path from the root, for example
	// "Document.Section.Paragraph.Text".
	TypePath() string

	// Text is the node's fully substituted text content. For containers
	// it is the concatenation of the children's text.
	Text() string

	// Position is the original source position of the node's first
	// character.
	Position() source.PositionMarker

	appendChild(Node)
	base() *baseNode
}

type baseNode struct {
	kind      Kind
	self      Node
	parent    Node
	root      *Document
	children  []Node
	language  string
	text      string
	position  source.PositionMarker
	finalized bool
}

// newBase initializes the shared node state and attaches self to
// parent. The language is resolved from the document's current language
// at construction time.
func newBase(kind Kind, self, parent Node) baseNode {
	b := baseNode{kind: kind, self: self, parent: parent}
	if parent != nil {
		b.root = parent.Root()
		b.language = b.root.CurrentLanguage()
		parent.appendChild(self)
	}
	return b
}

func (n *baseNode) Kind() Kind        { return n.kind }
func (n *baseNode) Parent() Node      { return n.parent }
func (n *baseNode) Root() *Document   { return n.root }
func (n *baseNode) Children() []Node  { return n.children }
func (n *baseNode) Language() string  { return n.language }
func (n *baseNode) base() *baseNode   { return n }
func (n *baseNode) appendChild(c Node) {
	n.children = append(n.children, c)
}

func (n *baseNode) TypePath() string {
	if n.parent == nil {
		return n.kind.String()
	}
	return n.parent.TypePath() + "." + n.kind.String()
}

func (n *baseNode) Text() string {
	n.mustBeFinal("Text")
	return n.text
}

func (n *baseNode) Position() source.PositionMarker {
	n.mustBeFinal("Position")
	return n.position
}

func (n *baseNode) mustBeFinal(what string) {
	if !n.finalized {
		panic(fmt.Sprintf("ast: %s of %s accessed before finalization", what, n.TypePath()))
	}
}

// finalize records the node's source position and freezes it. Leaves
// set their text beforehand; containers inherit the concatenation of
// their children, which are finalized by then.
func (n *baseNode) finalize(pos source.PositionMarker) {
	n.position = pos
	if n.text == "" && len(n.children) > 0 {
		var sb strings.Builder
		for _, c := range n.children {
			sb.WriteString(c.Text())
		}
		n.text = sb.String()
	}
	n.finalized = true
}

// Walk calls fn for node and all its descendants in document order.
// Returning false prunes the subtree.
func Walk(node Node, fn func(Node) bool) {
	if !fn(node) {
		return
	}
	for _, c := range node.Children() {
		Walk(c, fn)
	}
}
