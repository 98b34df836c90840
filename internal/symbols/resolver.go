package symbols

import (
	"strings"

	"signal-tracker/internal/models"
)

// matcher is one pass of the resolution cascade. It returns the matched
// symbol or "" for no match. Every pass takes the already-normalized query
// and scans the directory in load order, first hit wins.
type matcher func(query string, dir []models.ReferenceEntry) string

// passes orders the cascade precision-first: exact matches are least likely
// to be spurious, first-token matches are most permissive and only used as a
// last resort.
var passes = []matcher{matchExact, matchSubstring, matchFirstToken}

// Resolve maps a free-form company name to a ticker symbol using the
// three-pass cascade. Returns "" when no pass matches (unresolved).
func Resolve(displayName string, dir []models.ReferenceEntry) string {
	query := Normalize(displayName)
	for _, pass := range passes {
		if sym := pass(query, dir); sym != "" {
			return sym
		}
	}
	return ""
}

func matchExact(query string, dir []models.ReferenceEntry) string {
	if query == "" {
		return ""
	}
	for _, e := range dir {
		if e.NormalizedName == query {
			return e.Symbol
		}
	}
	return ""
}

func matchSubstring(query string, dir []models.ReferenceEntry) string {
	if query == "" {
		return ""
	}
	for _, e := range dir {
		if e.NormalizedName == "" {
			continue
		}
		if strings.Contains(e.NormalizedName, query) || strings.Contains(query, e.NormalizedName) {
			return e.Symbol
		}
	}
	return ""
}

func matchFirstToken(query string, dir []models.ReferenceEntry) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		// An empty token would be a substring of every name; treat it as
		// no-match instead.
		return ""
	}
	token := fields[0]
	for _, e := range dir {
		if strings.Contains(e.NormalizedName, token) {
			return e.Symbol
		}
	}
	return ""
}
