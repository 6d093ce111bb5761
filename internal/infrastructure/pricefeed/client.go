package pricefeed

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"cryptowatch/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Getter fetches a URL and returns the 2xx response body.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Client fetches the full ticker listing in one request. It implements port.TickerSource.
type Client struct {
	url    string
	getter Getter
	logger *zap.Logger
}

// NewClient creates a ticker listing client for url.
func NewClient(url string, getter Getter, logger *zap.Logger) *Client {
	return &Client{
		url:    url,
		getter: getter,
		logger: logger.Named("PriceFeedClient"),
	}
}

// Tickers returns every listing entry whose prices parse, in listing order.
func (c *Client) Tickers(ctx context.Context) ([]entity.Ticker, error) {
	body, err := c.getter.Get(ctx, c.url)
	if err != nil {
		return nil, fmt.Errorf("price feed request failed: %w", err)
	}

	entries, err := decodeListing(body)
	if err != nil {
		c.logger.Error("Failed to unmarshal price feed response",
			zap.String("url", c.url),
			zap.ByteString("responseBody", truncate(body, 512)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal price feed response from %s: %w", c.url, err)
	}

	tickers := make([]entity.Ticker, 0, len(entries))
	dropped := 0
	for _, e := range entries {
		t, ok := toTicker(e)
		if !ok {
			dropped++
			continue
		}
		tickers = append(tickers, t)
	}
	if dropped > 0 {
		c.logger.Debug("Dropped ticker entries with unparsable prices", zap.Int("count", dropped))
	}
	if len(tickers) == 0 {
		c.logger.Warn("Price feed returned an empty listing", zap.String("url", c.url))
	}
	c.logger.Debug("Fetched price listing", zap.Int("tickers", len(tickers)))
	return tickers, nil
}

// decodeListing accepts a bare list or a {"data": [...]} wrapper.
func decodeListing(body []byte) ([]tickerEntry, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty body")
	}
	switch trimmed[0] {
	case '[':
		var entries []tickerEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, err
		}
		return entries, nil
	case '{':
		var wrapped tickerListing
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, err
		}
		if wrapped.Data == nil {
			return nil, fmt.Errorf("listing object has no data field")
		}
		return wrapped.Data, nil
	default:
		return nil, fmt.Errorf("unexpected listing payload")
	}
}

func toTicker(e tickerEntry) (entity.Ticker, bool) {
	sym := strings.ToUpper(strings.TrimSpace(e.Symbol))
	if sym == "" {
		return entity.Ticker{}, false
	}
	usd, err := parsePrice(e.PriceUSD)
	if err != nil {
		return entity.Ticker{}, false
	}
	btc, err := parsePrice(e.PriceBTC)
	if err != nil {
		return entity.Ticker{}, false
	}
	return entity.Ticker{Symbol: sym, PriceUSD: usd, PriceBTC: btc}, true
}

func parsePrice(raw jsoniter.RawMessage) (decimal.Decimal, error) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return decimal.Zero, fmt.Errorf("missing price")
	}
	return decimal.NewFromString(s)
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
