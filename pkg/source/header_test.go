package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texgen/pkg/source"
)

func TestDetectHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		text        string
		wantEnc     string
		wantMethods []string
	}{
		{
			name:        "version line only",
			text:        ".. texgen 1.0\nHello.\n",
			wantEnc:     "utf-8",
			wantMethods: []string{"minimal"},
		},
		{
			name:        "local variables first",
			text:        ".. -*- coding: latin-1; input-method: none -*-\n.. texgen 1.0\nHello.\n",
			wantEnc:     "latin-1",
			wantMethods: []string{"none"},
		},
		{
			name:        "multiple input methods",
			text:        ".. -*- input-method: minimal, german -*-\n.. texgen 1.0\n",
			wantEnc:     "utf-8",
			wantMethods: []string{"minimal", "german"},
		},
		{
			name:        "comments before the version line",
			text:        ".. a remark\n..\n\n.. texgen 1.0\nHello.\n",
			wantEnc:     "utf-8",
			wantMethods: []string{"minimal"},
		},
		{
			name:        "trailing blanks on the version line",
			text:        ".. texgen 1.0   \nHello.\n",
			wantEnc:     "utf-8",
			wantMethods: []string{"minimal"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			header, err := source.DetectHeader(testCase.text, "doc.tg")
			require.NoError(t, err)
			assert.Equal(t, "1.0", header.Version)
			assert.Equal(t, testCase.wantEnc, header.Encoding)
			assert.Equal(t, testCase.wantMethods, header.InputMethods)
		})
	}
}

func TestDetectHeaderErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing version line", func(t *testing.T) {
		t.Parallel()

		_, err := source.DetectHeader("Hello.\n", "doc.tg")
		require.Error(t, err)

		var fileErr *source.FileError
		require.ErrorAs(t, err, &fileErr)
		assert.Equal(t, "doc.tg", fileErr.Path)
		assert.Contains(t, fileErr.Msg, "texgen")
	})

	t.Run("content before the version line", func(t *testing.T) {
		t.Parallel()

		_, err := source.DetectHeader("Hello.\n.. texgen 1.0\n", "doc.tg")
		require.Error(t, err)
	})

	t.Run("unsupported version", func(t *testing.T) {
		t.Parallel()

		_, err := source.DetectHeader(".. texgen 2.0\n", "doc.tg")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported format version 2.0")
	})

	t.Run("malformed local variables", func(t *testing.T) {
		t.Parallel()

		_, err := source.DetectHeader(".. -*- coding utf-8 -*-\n.. texgen 1.0\n", "doc.tg")
		require.Error(t, err)

		var lvErr *source.LocalVariablesError
		assert.ErrorAs(t, err, &lvErr)
	})
}
