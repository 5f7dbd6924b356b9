package source

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/yaklabco/texgen/pkg/subst"
)

// LoadFile reads and decodes a document. The encoding is taken from the
// coding entry of the local variables line if present; otherwise UTF-8
// is assumed with a Latin-1 fallback for legacy files. The returned
// text is valid UTF-8 with the header still in place.
func LoadFile(path string) (string, Header, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", Header{}, &FileError{Path: path, Msg: err.Error()}
	}

	text, err := decode(data, path)
	if err != nil {
		return "", Header{}, err
	}

	header, err := DetectHeader(text, path)
	if err != nil {
		return "", Header{}, err
	}
	return text, header, nil
}

func decode(data []byte, path string) (string, error) {
	coding := declaredCoding(data)

	switch strings.ToLower(coding) {
	case "":
		if utf8.Valid(data) {
			return string(data), nil
		}
		// Legacy files without a coding declaration.
		return decodeLatin1(data), nil
	case "utf-8", "utf8":
		if !utf8.Valid(data) {
			return "", NewEncodingError(path, "file is not valid UTF-8")
		}
		return string(data), nil
	case "latin-1", "latin1", "iso-8859-1":
		return decodeLatin1(data), nil
	default:
		return "", NewEncodingError(path, fmt.Sprintf("unsupported encoding %q", coding))
	}
}

// declaredCoding peeks at the first line for a coding declaration. The
// line is decoded as Latin-1 for the peek, which is safe because
// local-variable tokens are plain ASCII.
func declaredCoding(data []byte) string {
	line := data
	if i := strings.IndexByte(string(data), '\n'); i >= 0 {
		line = data[:i]
	}
	vars, err := subst.ParseLocalVariables(decodeLatin1(line), false, ".. ")
	if err != nil {
		return ""
	}
	return subst.LocalVariable(vars, "coding", "")
}

func decodeLatin1(data []byte) string {
	decoded, _ := charmap.ISO8859_1.NewDecoder().Bytes(data)
	return string(decoded)
}
