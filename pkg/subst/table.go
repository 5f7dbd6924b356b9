// Package subst implements ordered substitution tables ("input methods")
// used to rewrite source text before parsing (pre) and right before leaf
// text reaches a backend (post).
package subst

import (
	"regexp"
	"strings"
)

// Rule is a single substitution: a pattern and its (short) replacement.
// Rules are applied in file order; the loader normalizes duplicates so
// that later definitions win.
type Rule struct {
	// Raw is the pattern source as it appeared in the description file.
	Raw string

	// Pattern is the compiled form. Literal rules are quoted before
	// compilation, so every rule is matched through the same engine.
	Pattern *regexp.Regexp

	// Replacement is the text substituted for a match, typically a
	// single character.
	Replacement string

	// IsRegex reports whether Raw was declared with the REGEX:: prefix.
	IsRegex bool

	// Post routes the rule to the post table instead of the pre table.
	Post bool
}

// Table is an ordered list of substitution rules.
type Table struct {
	rules []Rule
}

// NewTable creates a table from rules, preserving their order.
func NewTable(rules []Rule) *Table {
	return &Table{rules: rules}
}

// Rules returns the rules in application order.
func (t *Table) Rules() []Rule {
	return t.rules
}

// Len returns the number of rules.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

// Match describes the result of an EarliestMatch lookup.
type Match struct {
	// Start is the byte offset of the match in the searched text.
	Start int

	// Length is the byte length of the matched span.
	Length int

	// Replacement is the text to substitute for the span.
	Replacement string
}

// EarliestMatch returns the next match in text at or after from.
//
// Among all rules the match with the smallest start offset wins; among
// matches at the same start, the longest wins. A match spanning a line
// break is rejected. The second return value is false if no rule
// matches.
func (t *Table) EarliestMatch(text string, from int) (Match, bool) {
	if t == nil || from >= len(text) {
		return Match{}, false
	}

	best := Match{Start: len(text)}
	found := false

	for _, rule := range t.rules {
		loc := searchFrom(rule.Pattern, text, from)
		if loc == nil {
			continue
		}
		start, end := loc[0], loc[1]
		if start == end {
			// Empty matches would loop forever in the caller.
			continue
		}
		if strings.ContainsAny(text[start:end], "\r\n") {
			continue
		}

		length := end - start
		switch {
		case start < best.Start:
			best = Match{Start: start, Length: length, Replacement: rule.Replacement}
			found = true
		case start == best.Start && length > best.Length:
			best = Match{Start: start, Length: length, Replacement: rule.Replacement}
			found = true
		}
	}

	if !found {
		return Match{}, false
	}
	return best, true
}

// searchFrom finds the first match of re in text at or after from,
// returning absolute offsets.
func searchFrom(re *regexp.Regexp, text string, from int) []int {
	loc := re.FindStringIndex(text[from:])
	if loc == nil {
		return nil
	}
	return []int{loc[0] + from, loc[1] + from}
}

// Set bundles the pre and post tables of one input method chain.
//
// All buffers derived from one document share a single Set; buffer
// concatenation checks Set identity, not table contents.
type Set struct {
	Pre  *Table
	Post *Table
}

// EmptySet returns a Set with no rules (the "none" input method).
func EmptySet() *Set {
	return &Set{Pre: NewTable(nil), Post: NewTable(nil)}
}
