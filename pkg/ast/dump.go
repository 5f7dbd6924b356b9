package ast

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented rendering of the tree rooted at node, for
// debugging and golden tests.
func Dump(w io.Writer, node Node) {
	dump(w, node, 0)
}

func dump(w io.Writer, node Node, depth int) {
	indent := strings.Repeat("  ", depth)

	switch n := node.(type) {
	case *Section:
		fmt.Fprintf(w, "%s%s %s\n", indent, n.Kind(), n.Number)
	case *Hyperlink:
		fmt.Fprintf(w, "%s%s <%s>\n", indent, n.Kind(), n.URL)
	case *Text, *MathSpan, *CodeSpan:
		fmt.Fprintf(w, "%s%s %q\n", indent, node.Kind(), node.Text())
	default:
		fmt.Fprintf(w, "%s%s\n", indent, node.Kind())
	}

	for _, c := range node.Children() {
		dump(w, c, depth+1)
	}
}
