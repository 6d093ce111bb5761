package service

import (
	"context"
	"strings"
	"time"

	"cryptowatch/internal/app/port"
	"cryptowatch/internal/domain/entity"
	"cryptowatch/internal/pkg/metrics"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const listingCacheKey = "listing"

// PriceService resolves unit prices from one ticker listing per lookup.
// It implements port.PriceLookup.
type PriceService struct {
	source port.TickerSource
	cache  *cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewPriceService creates a PriceService. A positive ttl caches successful listings.
func NewPriceService(source port.TickerSource, ttl time.Duration, logger *zap.Logger) *PriceService {
	s := &PriceService{
		source: source,
		ttl:    ttl,
		logger: logger.Named("PriceService"),
	}
	if ttl > 0 {
		s.cache = cache.New(ttl, 2*ttl)
	}
	return s
}

// Lookup returns one UnitPrice per symbol, in order. When the feed fails every position is
// absent; the failure is logged and never returned.
func (s *PriceService) Lookup(ctx context.Context, symbols []string) []entity.UnitPrice {
	out := make([]entity.UnitPrice, len(symbols))
	if len(symbols) == 0 {
		return out
	}

	index, ok := s.listing(ctx)
	if !ok {
		return out
	}
	for i, sym := range symbols {
		if p, found := index[strings.ToUpper(strings.TrimSpace(sym))]; found {
			out[i] = p
		}
	}
	return out
}

func (s *PriceService) listing(ctx context.Context) (map[string]entity.UnitPrice, bool) {
	if s.cache != nil {
		if v, found := s.cache.Get(listingCacheKey); found {
			metrics.PriceFeedFetches.WithLabelValues("cached").Inc()
			return v.(map[string]entity.UnitPrice), true
		}
	}

	tickers, err := s.source.Tickers(ctx)
	if err != nil {
		metrics.PriceFeedFetches.WithLabelValues(metrics.OutcomeFailure).Inc()
		s.logger.Error("Failed to fetch price listing", zap.Error(err))
		return nil, false
	}
	metrics.PriceFeedFetches.WithLabelValues(metrics.OutcomeOK).Inc()

	index := make(map[string]entity.UnitPrice, len(tickers))
	for _, t := range tickers {
		sym := strings.ToUpper(t.Symbol)
		// First entry per symbol wins.
		if _, dup := index[sym]; dup {
			continue
		}
		index[sym] = entity.Price(t.PriceUSD, t.PriceBTC)
	}

	if s.cache != nil {
		s.cache.Set(listingCacheKey, index, s.ttl)
	}
	return index, true
}
