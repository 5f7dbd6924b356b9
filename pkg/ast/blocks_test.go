package ast_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texgen/pkg/ast"
	"github.com/yaklabco/texgen/pkg/source"
	"github.com/yaklabco/texgen/pkg/subst"
)

// parseDoc scans and parses raw with empty substitution tables.
func parseDoc(t *testing.T, raw string) (*ast.Document, *ast.Diagnostics) {
	t.Helper()

	buf, issues := source.NewFromRaw(raw, "doc.tg", subst.EmptySet())
	require.Empty(t, issues)

	diags := &ast.Diagnostics{}
	doc := ast.NewDocument(diags)
	require.NoError(t, doc.Parse(buf))
	return doc, diags
}

func TestParseSingleParagraph(t *testing.T) {
	t.Parallel()

	doc, diags := parseDoc(t, "Hello world.\n")
	require.Equal(t, 0, diags.Len())

	children := doc.Children()
	require.Len(t, children, 1)
	require.Equal(t, ast.KindParagraph, children[0].Kind())
	assert.Equal(t, "Hello world.", children[0].Text())
}

func TestParseParagraphsSplitOnBlankLines(t *testing.T) {
	t.Parallel()

	doc, _ := parseDoc(t, "one two\nthree\n\nfour\n\n\n  \nfive\n")

	children := doc.Children()
	require.Len(t, children, 3)
	assert.Equal(t, "one two\nthree", children[0].Text())
	assert.Equal(t, "four", children[1].Text())
	assert.Equal(t, "five", children[2].Text(), "the last block ends at its content too")
}

func TestParseSectionNesting(t *testing.T) {
	t.Parallel()

	raw := strings.Join([]string{
		"1. Introduction",
		"====",
		"",
		"Hello world.",
		"",
		"1.1. Details",
		"====",
		"",
		"Deep text.",
		"",
		"2. Next",
		"====",
		"",
		"More.",
		"",
	}, "\n")

	doc, diags := parseDoc(t, raw)
	require.Equal(t, 0, diags.Len())

	top := doc.Children()
	require.Len(t, top, 2)

	intro, ok := top[0].(*ast.Section)
	require.True(t, ok)
	assert.Equal(t, 0, intro.Level)
	assert.Equal(t, "1", intro.Number)

	introKids := intro.Children()
	require.Len(t, introKids, 3)
	require.Equal(t, ast.KindHeading, introKids[0].Kind())
	assert.Equal(t, "Introduction", introKids[0].Text())
	require.Equal(t, ast.KindParagraph, introKids[1].Kind())
	assert.Equal(t, "Hello world.", introKids[1].Text())

	details, ok := introKids[2].(*ast.Section)
	require.True(t, ok)
	assert.Equal(t, 1, details.Level)
	assert.Equal(t, "1.1", details.Number)
	require.Len(t, details.Children(), 2)
	assert.Equal(t, "Details", details.Children()[0].Text())
	assert.Equal(t, "Deep text.", details.Children()[1].Text())

	next, ok := top[1].(*ast.Section)
	require.True(t, ok)
	assert.Equal(t, 0, next.Level)
	assert.Equal(t, "2", next.Number)
	assert.Equal(t, "Next", next.Children()[0].Text())
}

func TestParseAutoNumberedSection(t *testing.T) {
	t.Parallel()

	doc, diags := parseDoc(t, "#. Overview\n====\n\ntext\n\n#.#. Sub\n====\n\ndeep\n")
	require.Equal(t, 0, diags.Len())

	sec, ok := doc.Children()[0].(*ast.Section)
	require.True(t, ok)
	assert.Equal(t, "#", sec.Number)
	assert.Equal(t, 0, sec.Level)

	sub, ok := sec.Children()[2].(*ast.Section)
	require.True(t, ok)
	assert.Equal(t, "#.#", sub.Number)
	assert.Equal(t, 1, sub.Level)
}

func TestParseDeepFirstSection(t *testing.T) {
	t.Parallel()

	// Nothing requires the first heading to be level zero.
	doc, diags := parseDoc(t, "1.2.3. Deep start\n====\n\ntext\n")
	require.Equal(t, 0, diags.Len())

	sec, ok := doc.Children()[0].(*ast.Section)
	require.True(t, ok)
	assert.Equal(t, 2, sec.Level)
	assert.Equal(t, "1.2.3", sec.Number)
}

func TestParseHeadingAtEndOfInput(t *testing.T) {
	t.Parallel()

	// A trailing newline after the marker line must not hide the
	// heading; all three spellings describe the same document.
	for _, raw := range []string{"1. A\n====", "1. A\n====\n", "1. A\n====\n\n"} {
		doc, diags := parseDoc(t, raw)
		require.Equal(t, 0, diags.Len(), "input %q", raw)

		require.Len(t, doc.Children(), 1, "input %q", raw)
		sec, ok := doc.Children()[0].(*ast.Section)
		require.True(t, ok, "input %q", raw)
		require.Len(t, sec.Children(), 1)
		assert.Equal(t, "A", sec.Children()[0].Text())
	}
}

func TestParseFinalHeadingClosesEnclosingSections(t *testing.T) {
	t.Parallel()

	raw := "1. A\n====\n\n1.1. B\n====\n\n1.2. C\n====\n\n2. D\n====\n"
	doc, diags := parseDoc(t, raw)
	require.Equal(t, 0, diags.Len())

	top := doc.Children()
	require.Len(t, top, 2)

	first, ok := top[0].(*ast.Section)
	require.True(t, ok)
	assert.Equal(t, "1", first.Number)
	require.Len(t, first.Children(), 3)
	assert.Equal(t, "1.1", first.Children()[1].(*ast.Section).Number)
	assert.Equal(t, "1.2", first.Children()[2].(*ast.Section).Number)

	last, ok := top[1].(*ast.Section)
	require.True(t, ok)
	assert.Equal(t, "2", last.Number)
	assert.Equal(t, "D", last.Children()[0].Text())
}

func TestParseHeadingWithoutNumber(t *testing.T) {
	t.Parallel()

	doc, diags := parseDoc(t, "Title\n====\n\ntext\n")

	require.Equal(t, 1, diags.Len())
	diag := diags.All()[0]
	assert.Equal(t, ast.SeverityError, diag.Severity)
	assert.Contains(t, diag.Message, "without a section number")
	assert.Equal(t, 1, diag.Position.Line)

	// The block degrades to a paragraph instead of vanishing.
	require.Len(t, doc.Children(), 2)
	assert.Equal(t, ast.KindParagraph, doc.Children()[0].Kind())
}

func TestParseEscapedUnderlineIsText(t *testing.T) {
	t.Parallel()

	doc, diags := parseDoc(t, "Title\n\\====\n")
	require.Equal(t, 0, diags.Len())

	require.Len(t, doc.Children(), 1)
	require.Equal(t, ast.KindParagraph, doc.Children()[0].Kind())
	assert.Equal(t, "Title\n====", doc.Children()[0].Text())
}

func TestParsePositions(t *testing.T) {
	t.Parallel()

	raw := "1. Top\n====\n\nbody\n\n1.1. Inner\n====\n\ndeep\n"
	doc, _ := parseDoc(t, raw)

	sec := doc.Children()[0].(*ast.Section)
	assert.Equal(t, 1, sec.Position().Line)

	para := sec.Children()[1]
	assert.Equal(t, 4, para.Position().Line)
	assert.Equal(t, 0, para.Position().Column)

	inner := sec.Children()[2].(*ast.Section)
	assert.Equal(t, 6, inner.Position().Line)
}

func TestParseLanguageInheritance(t *testing.T) {
	t.Parallel()

	buf, _ := source.NewFromRaw("Hallo.\n", "doc.tg", subst.EmptySet())

	doc := ast.NewDocument(&ast.Diagnostics{})
	doc.SetLanguage("de")
	require.NoError(t, doc.Parse(buf))

	para := doc.Children()[0]
	assert.Equal(t, "de", para.Language())
	assert.Equal(t, "de", para.Children()[0].Language())
	assert.Equal(t, "en", doc.Language(), "the root keeps its construction language")
}

func TestParseEmptyDocument(t *testing.T) {
	t.Parallel()

	doc, diags := parseDoc(t, "\n  \n\n")
	require.Equal(t, 0, diags.Len())
	assert.Empty(t, doc.Children())
}
