// Package normalize implements the AIML matcher's text normalization: sentence
// splitting and the uppercase/strip/collapse pipeline applied to input,
// that-context, and topic-context text before it reaches the category store.
package normalize

import "strings"

// sentenceBoundary reports whether r ends a sentence for splitting purposes.
func sentenceBoundary(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// Sentences splits text into sentences at '.', '!', '?', dropping the
// boundary characters themselves and any resulting empty/whitespace-only
// fragments.
func Sentences(text string) []string {
	var out []string
	start := 0
	runes := []rune(text)
	for i, r := range runes {
		if sentenceBoundary(r) {
			if s := strings.TrimSpace(string(runes[start:i])); s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

// isMatchClassRune reports whether r belongs to the matcher alphabet:
// uppercase ASCII letters, digits, underscore, '*', and space.
func isMatchClassRune(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_' || r == '*' || r == ' ':
		return true
	default:
		return false
	}
}

// Normalize uppercases s, deletes any character outside [A-Z0-9_* ], and
// collapses runs of whitespace to single spaces. The result is suitable for
// matching and is the form in which AIML patterns are stored.
func Normalize(s string) string {
	upper := strings.ToUpper(s)
	var b strings.Builder
	b.Grow(len(upper))
	for _, r := range upper {
		if isMatchClassRune(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// CollapseSpace trims s and collapses internal whitespace runs to single
// spaces, without touching case or punctuation — used to clean up template
// output, as distinct from Normalize's matcher-alphabet reduction.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Tokens normalizes s and splits it into matcher tokens.
func Tokens(s string) []string {
	n := Normalize(s)
	if n == "" {
		return nil
	}
	return strings.Split(n, " ")
}
