package signals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"signal-tracker/internal/models"
	"signal-tracker/internal/symbols"
)

// ErrBadDate indicates an unparseable target date. Fatal, raised before any
// message fetch.
var ErrBadDate = errors.New("invalid target date")

// Message is one channel message as seen by the collector. Text is empty for
// media-only messages, which the collector skips.
type Message struct {
	Text string
	Date time.Time
}

// MessageSource produces a bounded, reverse-chronological window of recent
// channel messages.
type MessageSource interface {
	RecentMessages(ctx context.Context, channel string, limit int) ([]Message, error)
}

// Config carries the collector's previously-ambient settings explicitly.
type Config struct {
	Timezone   *time.Location
	Channel    string
	MessageCap int
}

// DefaultMessageCap bounds the historical scan. Messages older than the cap
// are invisible even when their date matches the target.
const DefaultMessageCap = 1000

// Collector turns a day's channel messages into resolved signal records.
type Collector struct {
	cfg    Config
	source MessageSource
	dir    []models.ReferenceEntry
	logger zerolog.Logger
}

// NewCollector builds a collector. A zero MessageCap falls back to
// DefaultMessageCap, a nil Timezone to time.Local.
func NewCollector(cfg Config, source MessageSource, dir []models.ReferenceEntry, logger zerolog.Logger) *Collector {
	if cfg.MessageCap <= 0 {
		cfg.MessageCap = DefaultMessageCap
	}
	if cfg.Timezone == nil {
		cfg.Timezone = time.Local
	}
	return &Collector{cfg: cfg, source: source, dir: dir, logger: logger}
}

// ParseTargetDate interprets the user-supplied date string in loc. An empty
// string means today. Strings containing '-' are read as YYYY-MM-DD,
// otherwise as compact DDMMYY. Anything else wraps ErrBadDate.
func ParseTargetDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now().In(loc), nil
	}
	layout := "020106"
	if strings.Contains(s, "-") {
		layout = "2006-01-02"
	}
	t, err := time.ParseInLocation(layout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	return t, nil
}

// CollectForDate scans up to the configured message cap, keeps messages whose
// local calendar date equals the target date, extracts their signals and
// resolves each company name against the directory.
//
// Returned records are ordered oldest to newest within the day (the source is
// reverse-chronological, so the scan order is reversed on output). Names that
// no resolver pass could match come back in the second return value, ordered
// by first appearance and deduplicated; their signals are dropped from the
// records. Fatal conditions (bad date, source failure) surface as errors,
// never as a silently empty result.
func (c *Collector) CollectForDate(ctx context.Context, dateStr string) ([]models.ResolvedRecord, []string, error) {
	target, err := ParseTargetDate(dateStr, c.cfg.Timezone)
	if err != nil {
		return nil, nil, err
	}
	ty, tm, td := target.Date()

	msgs, err := c.source.RecentMessages(ctx, c.cfg.Channel, c.cfg.MessageCap)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching channel history: %w", err)
	}
	c.logger.Debug().Int("messages", len(msgs)).Str("channel", c.cfg.Channel).Msg("scanned channel window")

	// Keep only the target day's messages, then flip them oldest-first so
	// records come out in chronological order with in-message signal order
	// intact.
	var dayMsgs []Message
	for _, msg := range msgs {
		if msg.Text == "" {
			continue
		}
		local := msg.Date.In(c.cfg.Timezone)
		y, m, d := local.Date()
		if y == ty && m == tm && d == td {
			dayMsgs = append(dayMsgs, msg)
		}
	}
	for i, j := 0, len(dayMsgs)-1; i < j; i, j = i+1, j-1 {
		dayMsgs[i], dayMsgs[j] = dayMsgs[j], dayMsgs[i]
	}

	var records []models.ResolvedRecord
	var unresolved []string
	seen := make(map[string]bool)

	for _, msg := range dayMsgs {
		local := msg.Date.In(c.cfg.Timezone)
		for _, sig := range ExtractSignals(msg.Text) {
			sym := symbols.Resolve(sig.DisplayName, c.dir)
			if sym == "" {
				if !seen[sig.DisplayName] {
					seen[sig.DisplayName] = true
					unresolved = append(unresolved, sig.DisplayName)
				}
				c.logger.Debug().Str("name", sig.DisplayName).Msg("no symbol match")
				continue
			}
			records = append(records, models.ResolvedRecord{
				DisplayName: sig.DisplayName,
				QuotedPrice: sig.QuotedPrice,
				Symbol:      sym,
				Date:        local.Format("02-01-2006"),
				Time:        local.Format("15:04"),
			})
		}
	}

	c.logger.Info().
		Int("records", len(records)).
		Int("unresolved", len(unresolved)).
		Str("date", target.Format("02-01-2006")).
		Msg("signal collection complete")
	return records, unresolved, nil
}
