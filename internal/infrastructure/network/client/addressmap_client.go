package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"cryptowatch/internal/app/port"
	"cryptowatch/internal/domain/entity"
	"cryptowatch/internal/infrastructure/fetch"
	"cryptowatch/internal/pkg/utils"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// addressMapEntry is one value of the blockchain.info balance object.
type addressMapEntry struct {
	FinalBalance jsoniter.RawMessage `json:"final_balance"`
}

// AddressMapClient looks balances up from a provider that answers with an object keyed
// by address, e.g. https://blockchain.info/balance?active=addr1|addr2.
type AddressMapClient struct {
	def    entity.ChainDefinition
	getter Getter
	logger *zap.Logger
}

// NewAddressMapClient creates an adapter for def.
func NewAddressMapClient(def entity.ChainDefinition, getter Getter, logger *zap.Logger) *AddressMapClient {
	return &AddressMapClient{
		def:    def,
		getter: getter,
		logger: logger.Named("AddressMapClient").With(zap.String("symbol", def.Symbol)),
	}
}

// Lookup implements port.ChainAdapter.
func (c *AddressMapClient) Lookup(ctx context.Context, addresses []string) ([]entity.AddressBalance, error) {
	if len(addresses) == 0 {
		return []entity.AddressBalance{}, nil
	}

	balances, err := c.lookupBatch(ctx, addresses)
	if err == nil {
		return balances, nil
	}
	if !c.def.SingleFallback || !fetch.IsStatus(err, 400) {
		return nil, err
	}
	if len(addresses) == 1 {
		c.logger.Debug("Single address rejected", zap.String("address", addresses[0]), zap.Error(err))
		return []entity.AddressBalance{entity.NotFound()}, nil
	}

	// The provider rejects the whole batch when one address is invalid.
	c.logger.Info("Batch rejected, falling back to single address lookups", zap.Int("count", len(addresses)))
	return c.lookupOneByOne(ctx, addresses)
}

func (c *AddressMapClient) lookupBatch(ctx context.Context, addresses []string) ([]entity.AddressBalance, error) {
	requestURL := withQuery(c.def.Endpoint, url.Values{"active": {strings.Join(addresses, "|")}})

	body, err := c.getter.Get(ctx, requestURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", port.ErrProviderFailure, c.def.Symbol, err)
	}

	var payload map[string]addressMapEntry
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		c.logger.Error("Failed to unmarshal address map response", zap.ByteString("responseBody", truncateBody(body)), zap.Error(err))
		return nil, fmt.Errorf("%w: %s: malformed response: %v", port.ErrProviderFailure, c.def.Symbol, err)
	}

	out := make([]entity.AddressBalance, len(addresses))
	for i, addr := range addresses {
		entry, ok := findEntry(payload, addr)
		if !ok {
			c.logger.Debug("Address missing from response", zap.String("address", addr))
			out[i] = entity.NotFound()
			continue
		}
		amount, err := utils.ParseAtomic(rawAmount(entry.FinalBalance), c.def.Decimals)
		if err != nil {
			c.logger.Debug("Malformed balance for address", zap.String("address", addr), zap.Error(err))
			out[i] = entity.NotFound()
			continue
		}
		out[i] = entity.Balance(amount)
	}
	return out, nil
}

func (c *AddressMapClient) lookupOneByOne(ctx context.Context, addresses []string) ([]entity.AddressBalance, error) {
	out := make([]entity.AddressBalance, len(addresses))
	var transportFailures int
	var lastErr error
	for i, addr := range addresses {
		res, err := c.lookupBatch(ctx, []string{addr})
		if err != nil {
			var se *fetch.StatusError
			if !errors.As(err, &se) {
				transportFailures++
				lastErr = err
			}
			c.logger.Debug("Single address lookup failed", zap.String("address", addr), zap.Error(err))
			out[i] = entity.NotFound()
			continue
		}
		out[i] = res[0]
	}
	if transportFailures == len(addresses) {
		return nil, lastErr
	}
	return out, nil
}

// findEntry matches addr against the response keys. Only bech32 addresses are matched
// ignoring case; base58 addresses are case-sensitive.
func findEntry(payload map[string]addressMapEntry, addr string) (addressMapEntry, bool) {
	if e, ok := payload[addr]; ok {
		return e, true
	}
	if !isBech32(addr) {
		return addressMapEntry{}, false
	}
	for k, e := range payload {
		if strings.EqualFold(k, addr) {
			return e, true
		}
	}
	return addressMapEntry{}, false
}

func isBech32(addr string) bool {
	lower := strings.ToLower(addr)
	for _, hrp := range []string{"bc1", "tb1", "bcrt1"} {
		if strings.HasPrefix(lower, hrp) {
			return true
		}
	}
	return false
}

func truncateBody(b []byte) []byte {
	if len(b) > 512 {
		return b[:512]
	}
	return b
}
