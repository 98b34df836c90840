// Package models provides domain models for the signal tracker.
package models

// Exchange represents a stock exchange.
type Exchange string

const (
	NSE Exchange = "NSE"
	BSE Exchange = "BSE"
)

// ReferenceEntry is one row of the symbol reference directory: an exchange
// ticker symbol and the company name in normalized comparison form.
// Entries are immutable after loading and keep their load order, which the
// resolver relies on for first-hit-wins matching.
type ReferenceEntry struct {
	Symbol         string
	NormalizedName string
}

// RawSignal is a single stock mention extracted from one channel message.
// QuotedPrice stays a string: upstream formatting is inconsistent and the
// value is only parsed to a number when analytics need it.
type RawSignal struct {
	DisplayName string
	QuotedPrice string
}

// ResolvedRecord is a RawSignal whose company name was matched to a ticker
// symbol, stamped with the local date and time of the source message.
// An empty Symbol means unresolved; such records never reach the output
// table, only the unresolved-names list.
type ResolvedRecord struct {
	DisplayName string
	QuotedPrice string
	Symbol      string
	Date        string // DD-MM-YYYY in the configured timezone
	Time        string // HH:MM in the configured timezone
}

// QuoteSnapshot holds per-symbol price data from a quote feed. All fields are
// pointers: nil means the feed did not supply the value, which is distinct
// from a legitimate zero price. Close and the 52-week range are only present
// when the feed's source provides them.
type QuoteSnapshot struct {
	LastPrice *float64
	Open      *float64
	High      *float64
	Low       *float64
	Close     *float64
	YearHigh  *float64
	YearLow   *float64
}

// EnrichedRecord is a ResolvedRecord merged with its quote snapshot and
// derived pivot levels. This is the unit handed to the presentation layer.
// Target and StopLoss are set iff open, high and low were all available.
type EnrichedRecord struct {
	ResolvedRecord
	QuoteSnapshot
	Target   *int
	StopLoss *int
}

// Float returns a pointer to v. Convenience for building snapshots.
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v.
func Int(v int) *int {
	return &v
}
