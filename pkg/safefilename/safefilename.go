// Package safefilename encodes arbitrary strings into names that are
// safe on any filesystem and shell, and decodes them back without loss.
//
// Lowercase letters, digits, and a small set of harmless punctuation
// pass through. Spaces become underscores, runs of uppercase letters
// are wrapped in braces and lowered, and everything else becomes the
// code point in hex between parentheses:
//
//	"Hello World" -> "{h}ello_{w}orld"
//	"res/old"     -> "res(2f)old"
package safefilename

import (
	"fmt"
	"strings"
	"unicode"
)

const safeChars = "abcdefghijklmnopqrstuvwxyz0123456789-+!$%&'@~#.,^"

func isSafe(r rune) bool {
	return strings.ContainsRune(safeChars, r)
}

// Encode returns the safe form of name.
func Encode(name string) string {
	var sb strings.Builder
	runes := []rune(name)

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case isSafe(r):
			sb.WriteRune(r)
			i++
		case r == ' ':
			sb.WriteByte('_')
			i++
		case unicode.IsUpper(r) && isSafe(unicode.ToLower(r)):
			j := i
			for j < len(runes) && unicode.IsUpper(runes[j]) && isSafe(unicode.ToLower(runes[j])) {
				j++
			}
			sb.WriteByte('{')
			for _, u := range runes[i:j] {
				sb.WriteRune(unicode.ToLower(u))
			}
			sb.WriteByte('}')
			i = j
		default:
			fmt.Fprintf(&sb, "(%x)", r)
			i++
		}
	}
	return sb.String()
}

// Decode reverses Encode. It fails on names that Encode cannot have
// produced.
func Decode(encoded string) (string, error) {
	var sb strings.Builder
	runes := []rune(encoded)

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case isSafe(r):
			sb.WriteRune(r)
			i++
		case r == '_':
			sb.WriteByte(' ')
			i++
		case r == '{':
			end := indexFrom(runes, i+1, '}')
			if end < 0 {
				return "", fmt.Errorf("safefilename: unclosed brace in %q", encoded)
			}
			for _, l := range runes[i+1 : end] {
				if !isSafe(l) || !unicode.IsLower(l) {
					return "", fmt.Errorf("safefilename: invalid character %q in brace group", l)
				}
				sb.WriteRune(unicode.ToUpper(l))
			}
			i = end + 1
		case r == '(':
			end := indexFrom(runes, i+1, ')')
			if end < 0 {
				return "", fmt.Errorf("safefilename: unclosed parenthesis in %q", encoded)
			}
			var n int64
			if _, err := fmt.Sscanf(string(runes[i+1:end]), "%x", &n); err != nil {
				return "", fmt.Errorf("safefilename: bad hex group in %q", encoded)
			}
			sb.WriteRune(rune(n))
			i = end + 1
		default:
			return "", fmt.Errorf("safefilename: illegal character %q in %q", r, encoded)
		}
	}
	return sb.String(), nil
}

func indexFrom(runes []rune, from int, want rune) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == want {
			return i
		}
	}
	return -1
}
