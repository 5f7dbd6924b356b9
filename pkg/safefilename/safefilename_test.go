package safefilename_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texgen/pkg/safefilename"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already safe", "notes-2.tg", "notes-2.tg"},
		{"spaces", "my notes", "my_notes"},
		{"uppercase words", "Hello World", "{h}ello_{w}orld"},
		{"uppercase run", "HTTPServer", "{https}erver"},
		{"slash", "res/old", "res(2f)old"},
		{"underscore is unsafe", "a_b", "a(5f)b"},
		{"unicode", "naïve", "na(ef)ve"},
		{"empty", "", ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.want, safefilename.Encode(testCase.in))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"plain",
		"Hello World",
		"res/old",
		"a_b (draft) [v2]",
		"größe 42",
		"ALLCAPS",
		"mixed CaSe 100%",
	}

	for _, in := range inputs {
		encoded := safefilename.Encode(in)
		decoded, err := safefilename.Decode(encoded)
		require.NoError(t, err, "input %q encoded %q", in, encoded)
		assert.Equal(t, in, decoded)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
	}{
		{"unclosed brace", "{abc"},
		{"uppercase in brace group", "{aBc}"},
		{"unclosed paren", "(2f"},
		{"bad hex", "(zz)"},
		{"illegal character", "a/b"},
		{"raw uppercase", "Abc"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := safefilename.Decode(testCase.in)
			assert.Error(t, err)
		})
	}
}
