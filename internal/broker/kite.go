// Package broker provides the Zerodha Kite Connect quote feed.
package broker

import (
	"context"
	"fmt"
	"os"
	"strings"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	apperrors "signal-tracker/internal/errors"
	"signal-tracker/internal/models"
)

// KiteConfig holds configuration for the Kite Connect feed.
type KiteConfig struct {
	APIKey string
	// AccessTokenPath points at a file holding the day's access token.
	// Token generation is the host application's job; the feed only
	// consumes the result.
	AccessTokenPath string
	// Exchange prefixes every symbol in quote requests. Defaults to NSE.
	Exchange models.Exchange
}

// KiteFeed fetches batched quotes from Kite Connect. It implements the
// enrich.QuoteFeed interface.
type KiteFeed struct {
	client   *kiteconnect.Client
	exchange models.Exchange
}

// NewKiteFeed builds the feed, reading the access token from disk.
func NewKiteFeed(cfg KiteConfig) (*KiteFeed, error) {
	token, err := loadAccessToken(cfg.AccessTokenPath)
	if err != nil {
		return nil, err
	}
	client := kiteconnect.New(cfg.APIKey)
	client.SetAccessToken(token)

	exchange := cfg.Exchange
	if exchange == "" {
		exchange = models.NSE
	}
	return &KiteFeed{client: client, exchange: exchange}, nil
}

func loadAccessToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading access token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("access token file %s is empty", path)
	}
	return token, nil
}

// Quotes fetches snapshots for all symbols in a single Kite quote call.
// Symbols missing from the response are absent from the result map; the
// caller treats that as per-symbol unavailability, not failure.
func (f *KiteFeed) Quotes(ctx context.Context, symbols []string) (map[string]models.QuoteSnapshot, error) {
	if len(symbols) == 0 {
		return map[string]models.QuoteSnapshot{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	instruments := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		instruments = append(instruments, fmt.Sprintf("%s:%s", f.exchange, sym))
	}

	quotes, err := f.client.GetQuote(instruments...)
	if err != nil {
		return nil, apperrors.NewQuoteFetchError(symbols, err)
	}

	out := make(map[string]models.QuoteSnapshot, len(symbols))
	for _, sym := range symbols {
		q, ok := quotes[fmt.Sprintf("%s:%s", f.exchange, sym)]
		if !ok {
			continue
		}
		out[sym] = models.QuoteSnapshot{
			LastPrice: models.Float(q.LastPrice),
			Open:      models.Float(q.OHLC.Open),
			High:      models.Float(q.OHLC.High),
			Low:       models.Float(q.OHLC.Low),
			Close:     models.Float(q.OHLC.Close),
		}
	}
	return out, nil
}
