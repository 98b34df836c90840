// Package signals extracts stock recommendations from channel messages and
// assembles them into dated, symbol-resolved records.
package signals

import (
	"regexp"
	"strings"

	"signal-tracker/internal/models"
)

// signalPattern matches one recommendation inside a message: an
// asterisk-delimited company name, a pipe, the literal *CMP* marker and an
// optional "Rs." token before the quoted price digits. The literals are
// case-sensitive; malformed or partial markers are not recovered.
var signalPattern = regexp.MustCompile(`\*(.*?)\* *\| *\*CMP\* *Rs\.? *([0-9]+)`)

// ExtractSignals scans message text for every non-overlapping occurrence of
// the signal pattern, left to right. Messages without signals are the common
// case and yield an empty slice, not an error.
func ExtractSignals(text string) []models.RawSignal {
	var out []models.RawSignal
	for _, m := range signalPattern.FindAllStringSubmatch(text, -1) {
		out = append(out, models.RawSignal{
			DisplayName: strings.TrimSpace(m[1]),
			QuotedPrice: strings.TrimSpace(m[2]),
		})
	}
	return out
}
