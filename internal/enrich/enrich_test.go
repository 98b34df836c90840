package enrich

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/rs/zerolog"

	"signal-tracker/internal/models"
)

func TestComputePivots(t *testing.T) {
	tests := []struct {
		name             string
		open, high, low  *float64
		wantTgt, wantStp *int
	}{
		{
			// pivot = (110+95+100)/3 = 101.666..; R1 = 108.33 -> 108,
			// S1 = 93.33 -> 93
			name: "classic example",
			open: models.Float(100), high: models.Float(110), low: models.Float(95),
			wantTgt: models.Int(108), wantStp: models.Int(93),
		},
		{
			name: "flat day",
			open: models.Float(500), high: models.Float(500), low: models.Float(500),
			wantTgt: models.Int(500), wantStp: models.Int(500),
		},
		{
			name: "zero prices are valid inputs",
			open: models.Float(0), high: models.Float(0), low: models.Float(0),
			wantTgt: models.Int(0), wantStp: models.Int(0),
		},
		{name: "missing open", high: models.Float(110), low: models.Float(95)},
		{name: "missing high", open: models.Float(100), low: models.Float(95)},
		{name: "missing low", open: models.Float(100), high: models.Float(110)},
		{name: "all missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, stop := ComputePivots(tt.open, tt.high, tt.low)
			if !eqInt(target, tt.wantTgt) || !eqInt(stop, tt.wantStp) {
				t.Errorf("got (%s, %s), want (%s, %s)",
					fmtInt(target), fmtInt(stop), fmtInt(tt.wantTgt), fmtInt(tt.wantStp))
			}
		})
	}
}

func eqInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func fmtInt(p *int) string {
	if p == nil {
		return "<nil>"
	}
	return strconv.Itoa(*p)
}

func TestApplySnapshotMissingLow(t *testing.T) {
	rec := models.ResolvedRecord{DisplayName: "Infosys", Symbol: "INFY", QuotedPrice: "1520"}
	snap := models.QuoteSnapshot{
		LastPrice: models.Float(1523.5),
		Open:      models.Float(1500),
		High:      models.Float(1530),
		// Low absent
	}

	got := ApplySnapshot(rec, snap)
	if got.Target != nil || got.StopLoss != nil {
		t.Errorf("pivots = (%v, %v), want both nil without low", got.Target, got.StopLoss)
	}
	if got.LastPrice == nil || *got.LastPrice != 1523.5 {
		t.Errorf("LastPrice not preserved: %v", got.LastPrice)
	}
	if got.Open == nil || got.High == nil {
		t.Errorf("present price fields were dropped: %+v", got.QuoteSnapshot)
	}
	if got.Symbol != "INFY" || got.QuotedPrice != "1520" {
		t.Errorf("record fields mangled: %+v", got.ResolvedRecord)
	}
}

// staticFeed answers from a fixed map, or fails wholesale.
type staticFeed struct {
	quotes map[string]models.QuoteSnapshot
	err    error
	got    []string
}

func (f *staticFeed) Quotes(ctx context.Context, symbols []string) (map[string]models.QuoteSnapshot, error) {
	f.got = symbols
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes, nil
}

func testRecords() []models.ResolvedRecord {
	return []models.ResolvedRecord{
		{DisplayName: "Reliance Industries", Symbol: "RELIANCE", QuotedPrice: "2450"},
		{DisplayName: "Infosys", Symbol: "INFY", QuotedPrice: "1520"},
		{DisplayName: "Reliance again", Symbol: "RELIANCE", QuotedPrice: "2455"},
	}
}

func TestEnrichBatchesAndPreservesOrder(t *testing.T) {
	feed := &staticFeed{quotes: map[string]models.QuoteSnapshot{
		"RELIANCE": {
			LastPrice: models.Float(2460),
			Open:      models.Float(2440),
			High:      models.Float(2470),
			Low:       models.Float(2430),
		},
	}}
	e := NewEnricher(feed, zerolog.Nop())

	out := e.Enrich(context.Background(), testRecords())
	if len(out) != 3 {
		t.Fatalf("got %d records, want 3", len(out))
	}

	// One batched call with deduplicated symbols in first-seen order.
	if len(feed.got) != 2 || feed.got[0] != "RELIANCE" || feed.got[1] != "INFY" {
		t.Errorf("feed queried with %v, want [RELIANCE INFY]", feed.got)
	}

	// Order matches input.
	for i, rec := range testRecords() {
		if out[i].Symbol != rec.Symbol || out[i].QuotedPrice != rec.QuotedPrice {
			t.Errorf("record %d reordered: %+v", i, out[i].ResolvedRecord)
		}
	}

	// RELIANCE enriched; pivot = (2470+2430+2440)/3 = 2446.67,
	// R1 = 2463.33 -> 2463, S1 = 2423.33 -> 2423.
	if out[0].Target == nil || *out[0].Target != 2463 {
		t.Errorf("Target = %v, want 2463", out[0].Target)
	}
	if out[0].StopLoss == nil || *out[0].StopLoss != 2423 {
		t.Errorf("StopLoss = %v, want 2423", out[0].StopLoss)
	}

	// INFY absent from the feed: degraded, not dropped.
	if out[1].LastPrice != nil || out[1].Target != nil {
		t.Errorf("missing-symbol record should stay empty, got %+v", out[1])
	}
}

func TestEnrichFeedFailureDegradesAll(t *testing.T) {
	feed := &staticFeed{err: errors.New("rate limited")}
	e := NewEnricher(feed, zerolog.Nop())

	out := e.Enrich(context.Background(), testRecords())
	if len(out) != 3 {
		t.Fatalf("feed failure must not drop records, got %d", len(out))
	}
	for i, r := range out {
		if r.LastPrice != nil || r.Target != nil || r.StopLoss != nil {
			t.Errorf("record %d has data despite feed failure: %+v", i, r)
		}
		if r.Symbol == "" {
			t.Errorf("record %d lost its symbol", i)
		}
	}
}

func TestEnrichNoRecords(t *testing.T) {
	feed := &staticFeed{}
	e := NewEnricher(feed, zerolog.Nop())

	out := e.Enrich(context.Background(), nil)
	if len(out) != 0 {
		t.Fatalf("got %d records, want 0", len(out))
	}
	if feed.got != nil {
		t.Errorf("feed queried with %v for empty input", feed.got)
	}
}
