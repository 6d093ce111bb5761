package client

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"cryptowatch/internal/app/port"
	"cryptowatch/internal/domain/entity"
	"cryptowatch/internal/pkg/utils"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

const defaultAccountListBatch = 20 // etherscan balancemulti limit

// accountListResponse is the etherscan envelope. Result is a list of accounts, a single
// account object, or an error string when Status is "0".
type accountListResponse struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Result  jsoniter.RawMessage `json:"result"`
}

type accountBalance struct {
	Account string              `json:"account"`
	Balance jsoniter.RawMessage `json:"balance"`
}

// AccountListClient looks balances up from a provider that answers with a positional list
// of {account, balance} objects (etherscan balancemulti).
type AccountListClient struct {
	def    entity.ChainDefinition
	getter Getter
	logger *zap.Logger
}

// NewAccountListClient creates an adapter for def.
func NewAccountListClient(def entity.ChainDefinition, getter Getter, logger *zap.Logger) *AccountListClient {
	if def.MaxAddressesPerCall <= 0 {
		def.MaxAddressesPerCall = defaultAccountListBatch
	}
	return &AccountListClient{
		def:    def,
		getter: getter,
		logger: logger.Named("AccountListClient").With(zap.String("symbol", def.Symbol)),
	}
}

// Lookup implements port.ChainAdapter. Addresses are sent in as few calls as the
// provider's per-call limit allows; any failing call fails the whole lookup.
func (c *AccountListClient) Lookup(ctx context.Context, addresses []string) ([]entity.AddressBalance, error) {
	out := make([]entity.AddressBalance, 0, len(addresses))
	for _, batch := range utils.BatchStrings(addresses, c.def.MaxAddressesPerCall) {
		res, err := c.lookupBatch(ctx, batch)
		if err != nil {
			return nil, err
		}
		out = append(out, res...)
	}
	return out, nil
}

func (c *AccountListClient) lookupBatch(ctx context.Context, addresses []string) ([]entity.AddressBalance, error) {
	q := url.Values{
		"module":  {"account"},
		"action":  {"balancemulti"},
		"address": {strings.Join(addresses, ",")},
		"tag":     {"latest"},
	}
	if c.def.APIKey != "" {
		q.Set("apikey", c.def.APIKey)
	}

	body, err := c.getter.Get(ctx, withQuery(c.def.Endpoint, q))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", port.ErrProviderFailure, c.def.Symbol, err)
	}

	var resp accountListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("Failed to unmarshal account list response", zap.ByteString("responseBody", truncateBody(body)), zap.Error(err))
		return nil, fmt.Errorf("%w: %s: malformed response: %v", port.ErrProviderFailure, c.def.Symbol, err)
	}

	accounts, err := normalizeAccounts(resp.Result)
	if err != nil {
		c.logger.Error("Unusable account list result",
			zap.String("status", resp.Status),
			zap.String("message", resp.Message),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %s: %v", port.ErrProviderFailure, c.def.Symbol, resp.Message, err)
	}

	if len(accounts) != len(addresses) {
		c.logger.Error("Response order does not match request",
			zap.Int("requested", len(addresses)),
			zap.Int("returned", len(accounts)))
		return nil, fmt.Errorf("%w: %s: requested %d addresses, got %d", port.ErrOrderMismatch, c.def.Symbol, len(addresses), len(accounts))
	}

	out := make([]entity.AddressBalance, len(addresses))
	for i, acc := range accounts {
		if !strings.EqualFold(strings.TrimSpace(acc.Account), addresses[i]) {
			c.logger.Error("Response order does not match request",
				zap.Int("position", i),
				zap.String("requested", addresses[i]),
				zap.String("returned", acc.Account))
			return nil, fmt.Errorf("%w: %s: position %d is %q, expected %q", port.ErrOrderMismatch, c.def.Symbol, i, acc.Account, addresses[i])
		}
		amount, err := utils.ParseAtomic(rawAmount(acc.Balance), c.def.Decimals)
		if err != nil {
			c.logger.Debug("Malformed balance for address", zap.String("address", addresses[i]), zap.Error(err))
			out[i] = entity.NotFound()
			continue
		}
		out[i] = entity.Balance(amount)
	}
	return out, nil
}

// normalizeAccounts turns the result field into a list. A single object is wrapped.
func normalizeAccounts(raw jsoniter.RawMessage) ([]accountBalance, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("missing result")
	}
	switch trimmed[0] {
	case '[':
		var list []accountBalance
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		return list, nil
	case '{':
		var single accountBalance
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, err
		}
		return []accountBalance{single}, nil
	case '"':
		var msg string
		_ = json.Unmarshal(trimmed, &msg)
		return nil, fmt.Errorf("provider error: %s", msg)
	default:
		return nil, fmt.Errorf("unexpected result %s", string(trimmed))
	}
}
