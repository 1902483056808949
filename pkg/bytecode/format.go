package bytecode

import (
	"strings"
)

// FormatLine returns the canonical form of one script line: indentation
// removed, tokens separated by a single space, and any comment kept after
// one space. Lines without an instruction keep only their comment.
func FormatLine(text string) string {
	code, comment := text, ""
	if i := strings.IndexByte(text, '#'); i >= 0 {
		code, comment = text[:i], strings.TrimRight(text[i:], " \t")
	}

	toks := tokenize(code)
	words := make([]string, len(toks))
	for i, tok := range toks {
		words[i] = tok.text
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(words, " "))
	if comment != "" {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(comment)
	}
	return sb.String()
}

// Format canonicalizes every line of a script. Line count and line
// order are preserved, so diagnostics keep pointing at the same lines.
func Format(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = FormatLine(strings.TrimSuffix(line, "\r"))
	}
	return strings.Join(lines, "\n")
}
