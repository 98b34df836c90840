// Package symbols provides the symbol reference directory and name matching.
package symbols

import "strings"

// Normalize maps arbitrary display text to its canonical comparison form:
// "&" becomes "and", everything outside [A-Za-z0-9 ] is stripped, the result
// is lower-cased and trimmed. Pure and idempotent; the same transform must be
// applied to directory names and query names so comparisons stay symmetric.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "&", "and")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return strings.TrimSpace(b.String())
}
