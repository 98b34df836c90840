package signals

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"signal-tracker/internal/models"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

// fakeSource serves a canned message window and records the requested limit.
type fakeSource struct {
	msgs      []Message
	err       error
	gotLimit  int
	gotChan   string
	callCount int
}

func (f *fakeSource) RecentMessages(ctx context.Context, channel string, limit int) ([]Message, error) {
	f.callCount++
	f.gotChan = channel
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if len(f.msgs) > limit {
		return f.msgs[:limit], nil
	}
	return f.msgs, nil
}

func testDir() []models.ReferenceEntry {
	return []models.ReferenceEntry{
		{Symbol: "RELIANCE", NormalizedName: "reliance industries"},
		{Symbol: "INFY", NormalizedName: "infosys limited"},
	}
}

func newTestCollector(src MessageSource, dir []models.ReferenceEntry) *Collector {
	return NewCollector(Config{
		Timezone:   ist,
		Channel:    "@signals",
		MessageCap: 50,
	}, src, dir, zerolog.Nop())
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04", value, ist)
	if err != nil {
		t.Fatalf("bad test time %q: %v", value, err)
	}
	return ts
}

func TestParseTargetDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string // DD-MM-YYYY, "" for error
	}{
		{"iso", "2026-08-28", "28-08-2026"},
		{"compact", "280826", "28-08-2026"},
		{"garbage", "28/08/26", ""},
		{"partial", "2026-13-99", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTargetDate(tt.in, ist)
			if tt.want == "" {
				if !errors.Is(err, ErrBadDate) {
					t.Fatalf("err = %v, want ErrBadDate", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Format("02-01-2006") != tt.want {
				t.Errorf("got %s, want %s", got.Format("02-01-2006"), tt.want)
			}
		})
	}
}

func TestParseTargetDateEmptyMeansToday(t *testing.T) {
	got, err := ParseTargetDate("", ist)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	now := time.Now().In(ist)
	if got.Format("2006-01-02") != now.Format("2006-01-02") {
		t.Errorf("got %s, want today %s", got.Format("2006-01-02"), now.Format("2006-01-02"))
	}
}

func TestCollectForDateBadDateIsFatalBeforeFetch(t *testing.T) {
	src := &fakeSource{}
	c := newTestCollector(src, testDir())

	_, _, err := c.CollectForDate(context.Background(), "not-a-date")
	if !errors.Is(err, ErrBadDate) {
		t.Fatalf("err = %v, want ErrBadDate", err)
	}
	if src.callCount != 0 {
		t.Errorf("source was queried %d times before date validation", src.callCount)
	}
}

func TestCollectForDateSourceErrorPropagates(t *testing.T) {
	srcErr := errors.New("flood wait")
	c := newTestCollector(&fakeSource{err: srcErr}, testDir())

	_, _, err := c.CollectForDate(context.Background(), "2026-08-28")
	if !errors.Is(err, srcErr) {
		t.Fatalf("err = %v, want wrapped source error", err)
	}
}

func TestCollectForDateFiltersAndOrders(t *testing.T) {
	// Reverse-chronological window spanning two days; only the 28th counts
	// and output must come back oldest first.
	src := &fakeSource{msgs: []Message{
		{Text: "*Infosys Limited* | *CMP* Rs. 1520", Date: at(t, "2026-08-29 09:30")},
		{Text: "*Infosys Limited* | *CMP* Rs. 1510", Date: at(t, "2026-08-28 14:05")},
		{Text: "", Date: at(t, "2026-08-28 13:00")}, // media-only, skipped
		{Text: "markets choppy today", Date: at(t, "2026-08-28 12:00")},
		{Text: "*Reliance Industries* | *CMP* Rs. 2450", Date: at(t, "2026-08-28 10:15")},
	}}
	c := newTestCollector(src, testDir())

	records, unresolved, err := c.CollectForDate(context.Background(), "2026-08-28")
	if err != nil {
		t.Fatalf("CollectForDate: %v", err)
	}
	if len(unresolved) != 0 {
		t.Errorf("unexpected unresolved names: %v", unresolved)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(records), records)
	}

	first := records[0]
	if first.Symbol != "RELIANCE" || first.QuotedPrice != "2450" {
		t.Errorf("first record = %+v, want RELIANCE@2450", first)
	}
	if first.Date != "28-08-2026" || first.Time != "10:15" {
		t.Errorf("first record stamped %s %s, want 28-08-2026 10:15", first.Date, first.Time)
	}
	if records[1].Symbol != "INFY" || records[1].Time != "14:05" {
		t.Errorf("second record = %+v, want INFY at 14:05", records[1])
	}

	if src.gotChan != "@signals" || src.gotLimit != 50 {
		t.Errorf("source queried with (%s, %d), want (@signals, 50)", src.gotChan, src.gotLimit)
	}
}

func TestCollectForDateTimezoneConversion(t *testing.T) {
	// 2026-08-28 20:00 UTC is already 2026-08-29 01:30 IST; it must not
	// count as the 28th.
	utcEvening := time.Date(2026, 8, 28, 20, 0, 0, 0, time.UTC)
	src := &fakeSource{msgs: []Message{
		{Text: "*Reliance Industries* | *CMP* Rs. 2450", Date: utcEvening},
	}}
	c := newTestCollector(src, testDir())

	records, _, err := c.CollectForDate(context.Background(), "2026-08-28")
	if err != nil {
		t.Fatalf("CollectForDate: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("UTC evening message leaked into the 28th: %+v", records)
	}

	records, _, err = c.CollectForDate(context.Background(), "2026-08-29")
	if err != nil {
		t.Fatalf("CollectForDate: %v", err)
	}
	if len(records) != 1 || records[0].Time != "01:30" {
		t.Fatalf("got %+v, want one record at 01:30 IST", records)
	}
}

func TestCollectForDateNoMatchingDay(t *testing.T) {
	src := &fakeSource{msgs: []Message{
		{Text: "*Reliance Industries* | *CMP* Rs. 2450", Date: at(t, "2026-08-27 10:00")},
	}}
	c := newTestCollector(src, testDir())

	records, unresolved, err := c.CollectForDate(context.Background(), "2026-08-28")
	if err != nil {
		t.Fatalf("CollectForDate: %v", err)
	}
	if len(records) != 0 || len(unresolved) != 0 {
		t.Errorf("got records=%v unresolved=%v, want both empty", records, unresolved)
	}
}

func TestCollectForDateUnresolvedNames(t *testing.T) {
	// Three directories, each only able to satisfy one resolver pass, all
	// fail for this name; plus duplicates collapse in the unresolved list.
	dirs := map[string][]models.ReferenceEntry{
		"exact-only":       {{Symbol: "AAA", NormalizedName: "totally different"}},
		"substring-only":   {{Symbol: "BBB", NormalizedName: "unrelated name"}},
		"first-token-only": {{Symbol: "CCC", NormalizedName: "nothing shared"}},
	}
	src := &fakeSource{msgs: []Message{
		{Text: "*Obscure Smallcap* | *CMP* Rs. 90", Date: at(t, "2026-08-28 11:00")},
		{Text: "*Obscure Smallcap* | *CMP* Rs. 91", Date: at(t, "2026-08-28 10:00")},
	}}

	for name, dir := range dirs {
		t.Run(name, func(t *testing.T) {
			c := newTestCollector(src, dir)
			records, unresolved, err := c.CollectForDate(context.Background(), "2026-08-28")
			if err != nil {
				t.Fatalf("CollectForDate: %v", err)
			}
			if len(records) != 0 {
				t.Errorf("unresolved signal leaked into records: %+v", records)
			}
			if len(unresolved) != 1 || unresolved[0] != "Obscure Smallcap" {
				t.Errorf("unresolved = %v, want [Obscure Smallcap]", unresolved)
			}
		})
	}
}
