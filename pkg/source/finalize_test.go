package source_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texgen/pkg/source"
	"github.com/yaklabco/texgen/pkg/subst"
)

// postOnly builds a set with a single literal post rule.
func postOnly(raw, replacement string) *subst.Set {
	return &subst.Set{
		Pre: subst.NewTable(nil),
		Post: subst.NewTable([]subst.Rule{{
			Raw:         raw,
			Pattern:     regexp.MustCompile(regexp.QuoteMeta(raw)),
			Replacement: replacement,
			Post:        true,
		}}),
	}
}

func TestFinalizeAppliesPostRules(t *testing.T) {
	t.Parallel()

	set := minimalSet(t)
	buf, _ := source.NewFromRaw("ca.~5 kg", "doc.tg", set)
	require.Equal(t, "ca.~5 kg", buf.String(), "tilde is untouched in the pre phase")

	final, err := buf.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "ca.\u00a05 kg", final.String())
	assert.True(t, final.Finalized())
	assert.False(t, buf.Finalized(), "finalization does not mutate the receiver")
}

func TestFinalizeOnlyOnce(t *testing.T) {
	t.Parallel()

	buf, _ := source.NewFromRaw("abc", "doc.tg", subst.EmptySet())

	final, err := buf.Finalize()
	require.NoError(t, err)

	_, err = final.Finalize()
	assert.ErrorIs(t, err, source.ErrRefinalized)
}

func TestFinalizeSkipsEscaped(t *testing.T) {
	t.Parallel()

	set := minimalSet(t)
	buf, _ := source.NewFromRaw(`a \~ b ~ c`, "doc.tg", set)
	require.Equal(t, "a ~ b ~ c", buf.String())

	final, err := buf.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "a ~ b \u00a0 c", final.String())
	assert.True(t, final.IsEscaped(2), "escape flags survive finalization")
}

func TestFinalizeSkipsOpaque(t *testing.T) {
	t.Parallel()

	set := minimalSet(t)
	buf, _ := source.NewFromRaw("```x~y``` ~", "doc.tg", set)

	final, err := buf.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "```x~y``` \u00a0", final.String())

	ranges := final.OpaqueRanges()
	require.Len(t, ranges, 1)
	assert.Equal(t, source.Span{Start: 3, End: 6}, ranges[0])
}

func TestFinalizeSkipsWhitespace(t *testing.T) {
	t.Parallel()

	set := postOnly(" ", "_")
	buf, _ := source.NewFromRaw("a b", "doc.tg", set)

	final, err := buf.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "a b", final.String(), "post rules never rewrite whitespace")
}

func TestFinalizePositionsAfterReplacement(t *testing.T) {
	t.Parallel()

	// One input byte becomes three output bytes; following text must
	// keep its source column.
	set := postOnly("*", "•")
	buf, _ := source.NewFromRaw("a*bcd", "doc.tg", set)

	final, err := buf.Finalize()
	require.NoError(t, err)
	require.Equal(t, "a•bcd", final.String())

	pos, err := final.PositionAt(4)
	require.NoError(t, err)
	assert.Equal(t, 2, pos.Column)

	pos, err = final.PositionAt(0)
	require.NoError(t, err)
	assert.Equal(t, 0, pos.Column)
}

func TestFinalizeMultiCharacterMatch(t *testing.T) {
	t.Parallel()

	set := postOnly("...", "…")
	buf, _ := source.NewFromRaw("wait... done", "doc.tg", set)

	final, err := buf.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "wait… done", final.String())

	// " done" starts at source column 7.
	pos, err := final.PositionAt(7)
	require.NoError(t, err)
	assert.Equal(t, 7, pos.Column)
}
