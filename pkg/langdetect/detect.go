// Package langdetect guesses the programming language of verbatim code
// spans. The result is used to pick a listings language for the LaTeX
// backend; an empty result means "no highlighting".
package langdetect

import (
	"bytes"

	"github.com/go-enry/go-enry/v2"
)

// candidates are the languages the classifier chooses between. They
// are the ones the listings package ships definitions for.
var candidates = []string{
	"Go", "Python", "C", "C++", "Java", "Ruby", "Perl",
	"Shell", "SQL", "HTML", "XML", "Fortran", "Pascal", "Haskell",
}

// listingsNames maps enry language names to the names the LaTeX
// listings package expects. Languages missing here are passed through
// lowercased.
var listingsNames = map[string]string{
	"Shell": "bash",
	"C++":   "C++",
	"HTML":  "HTML",
	"XML":   "XML",
	"SQL":   "SQL",
}

// Detect returns the listings language for code, or "" when no
// confident guess is possible. Short snippets rarely classify well, so
// a couple of cheap structural checks run before the classifier.
func Detect(code []byte) string {
	trimmed := bytes.TrimSpace(code)
	if len(trimmed) == 0 {
		return ""
	}

	if lang, safe := enry.GetLanguageByShebang(code); safe {
		return listingsName(lang)
	}

	if lang := detectByPattern(trimmed); lang != "" {
		return lang
	}

	if lang, safe := enry.GetLanguageByClassifier(code, candidates); safe && lang != "" {
		return listingsName(lang)
	}
	return ""
}

// detectByPattern catches unambiguous markers the classifier tends to
// miss on short snippets.
func detectByPattern(trimmed []byte) string {
	switch {
	case bytes.HasPrefix(trimmed, []byte("package ")) &&
		bytes.Contains(trimmed, []byte("func ")):
		return "Go"
	case bytes.Contains(trimmed, []byte("def ")) &&
		bytes.Contains(trimmed, []byte("):")):
		return "Python"
	case bytes.HasPrefix(trimmed, []byte("#include")):
		return "C"
	case bytes.HasPrefix(trimmed, []byte("SELECT ")) ||
		bytes.HasPrefix(trimmed, []byte("select ")):
		return "SQL"
	}
	return ""
}

func listingsName(lang string) string {
	if name, ok := listingsNames[lang]; ok {
		return name
	}
	// enry names are already capitalized the way listings wants them.
	return lang
}
