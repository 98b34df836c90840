// Package enrich merges live quote data into signal records and derives
// floor-trader pivot levels from it.
package enrich

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"signal-tracker/internal/models"
)

// QuoteFeed returns per-symbol snapshots for a batch of ticker symbols.
// Symbols the feed cannot serve are simply absent from the result map; that
// is not an error.
type QuoteFeed interface {
	Quotes(ctx context.Context, symbols []string) (map[string]models.QuoteSnapshot, error)
}

// ComputePivots derives first-level resistance and support from a day's
// open/high/low using the classic floor-trader formula:
//
//	pivot  = (high + low + open) / 3
//	target = round(2*pivot - low)
//	stop   = round(2*pivot - high)
//
// A nil input means the value was unavailable and yields (nil, nil). Zero is
// a valid price and is never treated as missing.
func ComputePivots(open, high, low *float64) (target, stop *int) {
	if open == nil || high == nil || low == nil {
		return nil, nil
	}
	pivot := (*high + *low + *open) / 3
	target = models.Int(int(math.Round(2*pivot - *low)))
	stop = models.Int(int(math.Round(2*pivot - *high)))
	return target, stop
}

// ApplySnapshot copies the snapshot's price fields onto the record and
// derives its pivot levels. Fields the snapshot lacks stay nil on the record.
func ApplySnapshot(rec models.ResolvedRecord, snap models.QuoteSnapshot) models.EnrichedRecord {
	out := models.EnrichedRecord{
		ResolvedRecord: rec,
		QuoteSnapshot:  snap,
	}
	out.Target, out.StopLoss = ComputePivots(snap.Open, snap.High, snap.Low)
	return out
}

// Enricher attaches quote data and pivots to collected records.
type Enricher struct {
	feed   QuoteFeed
	logger zerolog.Logger
}

// NewEnricher builds an enricher over the given feed.
func NewEnricher(feed QuoteFeed, logger zerolog.Logger) *Enricher {
	return &Enricher{feed: feed, logger: logger}
}

// Enrich fetches quotes for every distinct symbol in one batched call and
// applies them record by record, preserving input order. A feed failure, or a
// symbol the feed did not return, degrades only the affected records: their
// price and pivot fields stay nil and the rest of the table is unaffected.
func (e *Enricher) Enrich(ctx context.Context, records []models.ResolvedRecord) []models.EnrichedRecord {
	var syms []string
	seen := make(map[string]bool)
	for _, rec := range records {
		if rec.Symbol != "" && !seen[rec.Symbol] {
			seen[rec.Symbol] = true
			syms = append(syms, rec.Symbol)
		}
	}

	quotes := map[string]models.QuoteSnapshot{}
	if len(syms) > 0 {
		fetched, err := e.feed.Quotes(ctx, syms)
		if err != nil {
			e.logger.Warn().Err(err).Msg("quote fetch failed, records left without price data")
		} else {
			quotes = fetched
		}
	}

	out := make([]models.EnrichedRecord, 0, len(records))
	for _, rec := range records {
		snap, ok := quotes[rec.Symbol]
		if !ok {
			out = append(out, models.EnrichedRecord{ResolvedRecord: rec})
			continue
		}
		out = append(out, ApplySnapshot(rec, snap))
	}
	return out
}
