package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texgen/pkg/ast"
	"github.com/yaklabco/texgen/pkg/source"
	"github.com/yaklabco/texgen/pkg/subst"
)

// firstParagraph parses raw and returns its single paragraph.
func firstParagraph(t *testing.T, raw string) (ast.Node, *ast.Diagnostics) {
	t.Helper()

	doc, diags := parseDoc(t, raw)
	require.NotEmpty(t, doc.Children())
	para := doc.Children()[0]
	require.Equal(t, ast.KindParagraph, para.Kind())
	return para, diags
}

func kinds(nodes []ast.Node) []ast.Kind {
	ks := make([]ast.Kind, len(nodes))
	for i, n := range nodes {
		ks[i] = n.Kind()
	}
	return ks
}

func TestParseEmphasis(t *testing.T) {
	t.Parallel()

	para, diags := firstParagraph(t, "Hello _world_.\n")
	require.Equal(t, 0, diags.Len())

	children := para.Children()
	require.Equal(t, []ast.Kind{ast.KindText, ast.KindEmphasis, ast.KindText}, kinds(children))

	assert.Equal(t, "Hello ", children[0].Text())
	assert.Equal(t, "world", children[1].Text())
	assert.Equal(t, ".", children[2].Text())
	assert.Equal(t, "Hello world.", para.Text())

	emph := children[1]
	require.Len(t, emph.Children(), 1)
	assert.Equal(t, ast.KindText, emph.Children()[0].Kind())
	assert.Equal(t, 6, emph.Position().Column)
}

func TestParseMultipleEmphases(t *testing.T) {
	t.Parallel()

	para, diags := firstParagraph(t, "_a_ and _b_\n")
	require.Equal(t, 0, diags.Len())

	children := para.Children()
	require.Equal(t, []ast.Kind{
		ast.KindEmphasis, ast.KindText, ast.KindEmphasis,
	}, kinds(children))
	assert.Equal(t, "a", children[0].Text())
	assert.Equal(t, " and ", children[1].Text())
	assert.Equal(t, "b", children[2].Text())
}

func TestParseUnterminatedEmphasis(t *testing.T) {
	t.Parallel()

	para, diags := firstParagraph(t, "a _b\n")

	require.Equal(t, 1, diags.Len())
	diag := diags.All()[0]
	assert.Equal(t, ast.SeverityError, diag.Severity)
	assert.Contains(t, diag.Message, "emphasis is never closed")
	assert.Equal(t, 2, diag.Position.Column)

	// The open emphasis still captures the rest of the block.
	children := para.Children()
	require.Equal(t, []ast.Kind{ast.KindText, ast.KindEmphasis}, kinds(children))
	assert.Equal(t, "b", children[1].Text())
}

func TestParseEscapedUnderscoreIsText(t *testing.T) {
	t.Parallel()

	para, diags := firstParagraph(t, `a \_b\_ c`+"\n")
	require.Equal(t, 0, diags.Len())

	children := para.Children()
	require.Equal(t, []ast.Kind{ast.KindText}, kinds(children))
	assert.Equal(t, "a _b_ c", children[0].Text())
}

func TestParseLoneBacktickIsText(t *testing.T) {
	t.Parallel()

	para, diags := firstParagraph(t, "a ` b\n")
	require.Equal(t, 0, diags.Len())

	children := para.Children()
	require.Equal(t, []ast.Kind{ast.KindText}, kinds(children))
	assert.Equal(t, "a ` b", children[0].Text())
}

func TestParseCodeSpan(t *testing.T) {
	t.Parallel()

	para, diags := firstParagraph(t, "x ```a_b``` y\n")
	require.Equal(t, 0, diags.Len())

	children := para.Children()
	require.Equal(t, []ast.Kind{ast.KindText, ast.KindCodeSpan, ast.KindText}, kinds(children))

	span, ok := children[1].(*ast.CodeSpan)
	require.True(t, ok)
	assert.Equal(t, "a_b", span.Code, "the interior underscore opens no emphasis")
	assert.Equal(t, "a_b", span.Text())
	assert.Equal(t, 2, span.Position().Column)
}

func TestParseUnterminatedCodeSpan(t *testing.T) {
	t.Parallel()

	buf, issues := source.NewFromRaw("a ```bc\n", "doc.tg", subst.EmptySet())
	require.Len(t, issues, 1, "the scanner flags the open fence too")

	diags := &ast.Diagnostics{}
	doc := ast.NewDocument(diags)
	require.NoError(t, doc.Parse(buf))

	require.Equal(t, 1, diags.Len())
	diag := diags.All()[0]
	assert.Equal(t, ast.SeverityWarning, diag.Severity)
	assert.Contains(t, diag.Message, "code span is never closed")

	para := doc.Children()[0]
	span, ok := para.Children()[1].(*ast.CodeSpan)
	require.True(t, ok)
	assert.Equal(t, "bc\n", span.Code)
}

func TestParseMathSpan(t *testing.T) {
	t.Parallel()

	para, diags := firstParagraph(t, "mass energy: {m c^2} done\n")
	require.Equal(t, 0, diags.Len())

	children := para.Children()
	require.Equal(t, []ast.Kind{ast.KindText, ast.KindMathSpan, ast.KindText}, kinds(children))

	span, ok := children[1].(*ast.MathSpan)
	require.True(t, ok)
	assert.Equal(t, "m c^2", span.Formula)
	assert.Equal(t, "m c^2", span.Text())
}

func TestParseUnterminatedMathSpan(t *testing.T) {
	t.Parallel()

	_, diags := firstParagraph(t, "broken {x\n")

	require.Equal(t, 1, diags.Len())
	diag := diags.All()[0]
	assert.Equal(t, ast.SeverityError, diag.Severity)
	assert.Contains(t, diag.Message, "formula is never closed")
	assert.Equal(t, 7, diag.Position.Column)
}

func TestParseHyperlink(t *testing.T) {
	t.Parallel()

	para, diags := firstParagraph(t, "see <https://example.com/a_b#sec> now\n")
	require.Equal(t, 0, diags.Len())

	children := para.Children()
	require.Equal(t, []ast.Kind{ast.KindText, ast.KindHyperlink, ast.KindText}, kinds(children))

	link, ok := children[1].(*ast.Hyperlink)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/a_b#sec", link.URL)
	assert.Equal(t, link.URL, link.Text())
	assert.Equal(t, 4, link.Position().Column)
}

func TestParsePostSubstitutionInLeaves(t *testing.T) {
	t.Parallel()

	set, err := subst.Load([]string{"minimal"})
	require.NoError(t, err)

	buf, issues := source.NewFromRaw("ca.~5\n", "doc.tg", set)
	require.Empty(t, issues)

	diags := &ast.Diagnostics{}
	doc := ast.NewDocument(diags)
	require.NoError(t, doc.Parse(buf))

	para := doc.Children()[0]
	assert.Equal(t, "ca.\u00a05", para.Text())
}

func TestParseEmphasisInHeadingTitle(t *testing.T) {
	t.Parallel()

	doc, diags := parseDoc(t, "1. The _fine_ print\n====\n\nbody\n")
	require.Equal(t, 0, diags.Len())

	sec := doc.Children()[0].(*ast.Section)
	heading := sec.Children()[0]
	require.Equal(t, ast.KindHeading, heading.Kind())
	assert.Equal(t, "The fine print", heading.Text())
	require.Equal(t, []ast.Kind{
		ast.KindText, ast.KindEmphasis, ast.KindText,
	}, kinds(heading.Children()))
}
