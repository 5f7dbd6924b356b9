package latex

import "strings"

// specials maps characters that are active in LaTeX text mode to their
// escaped form. Everything else passes through; the preamble selects
// UTF-8 input, so substituted Unicode characters need no treatment.
var specials = map[rune]string{
	'\\': `\textbackslash{}`,
	'{':  `\{`,
	'}':  `\}`,
	'$':  `\$`,
	'&':  `\&`,
	'#':  `\#`,
	'%':  `\%`,
	'_':  `\_`,
	'^':  `\textasciicircum{}`,
	'~':  `\textasciitilde{}`,
	'<':  `\textless{}`,
	'>':  `\textgreater{}`,

	// Typographic characters with native LaTeX spellings render more
	// robustly through them than through the font's glyphs.
	' ': `~`,       // no-break space
	'–': `--`,      // en dash
	'—': `---`,     // em dash
	'…': `\dots{}`, // ellipsis
}

// escape returns s with all LaTeX specials escaped for text mode.
func escape(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if esc, ok := specials[r]; ok {
			sb.WriteString(esc)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// escapeURL escapes s for use inside \url{}. The url package handles
// most characters itself; only braces and percent signs break out.
func escapeURL(s string) string {
	replacer := strings.NewReplacer("{", `\{`, "}", `\}`, "%", `\%`)
	return replacer.Replace(s)
}
