package networkdefinition

import (
	"fmt"
	"sort"
	"strings"

	"cryptowatch/internal/app/port"
	"cryptowatch/internal/domain/entity"
)

// Provider holds the chain definitions in effect: the built-in ones merged with the configured ones.
type Provider struct {
	logger port.Logger
	defs   map[string]entity.ChainDefinition
}

// Predefined chain definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Bitcoin = entity.ChainDefinition{
		Symbol:              "BTC",
		Name:                "Bitcoin",
		Family:              entity.FamilyAddressMap,
		Endpoint:            "https://blockchain.info/balance",
		Decimals:            8,
		MaxAddressesPerCall: 0, // blockchain.info takes the whole list in one call
		SingleFallback:      true,
	}
	Ethereum = entity.ChainDefinition{
		Symbol:              "ETH",
		Name:                "Ethereum Mainnet",
		Family:              entity.FamilyAccountList,
		Endpoint:            "https://api.etherscan.io/api",
		Decimals:            18,
		MaxAddressesPerCall: 20,
	}
	BSC = entity.ChainDefinition{
		Symbol:   "BNB",
		Name:     "BNB Smart Chain",
		Family:   entity.FamilyEVMRPC,
		Endpoint: "https://bsc-dataseed2.binance.org/",
		Decimals: 18,
	}
	Polygon = entity.ChainDefinition{
		Symbol:   "MATIC",
		Name:     "Polygon PoS",
		Family:   entity.FamilyEVMRPC,
		Endpoint: "https://polygon-rpc.com/",
		Decimals: 18,
	}
	Avalanche = entity.ChainDefinition{
		Symbol:   "AVAX",
		Name:     "Avalanche C-Chain",
		Family:   entity.FamilyEVMRPC,
		Endpoint: "https://api.avax.network/ext/bc/C/rpc",
		Decimals: 18,
	}
	Fantom = entity.ChainDefinition{
		Symbol:   "FTM",
		Name:     "Fantom Opera",
		Family:   entity.FamilyEVMRPC,
		Endpoint: "https://rpc.ankr.com/fantom",
		Decimals: 18,
	}
	Celo = entity.ChainDefinition{
		Symbol:   "CELO",
		Name:     "Celo Mainnet",
		Family:   entity.FamilyEVMRPC,
		Endpoint: "https://rpc.ankr.com/celo",
		Decimals: 18,
	}
)

// Builtin returns a copy of the hardcoded definitions keyed by symbol.
func Builtin() map[string]entity.ChainDefinition {
	return map[string]entity.ChainDefinition{
		Bitcoin.Symbol:   Bitcoin,
		Ethereum.Symbol:  Ethereum,
		BSC.Symbol:       BSC,
		Polygon.Symbol:   Polygon,
		Avalanche.Symbol: Avalanche,
		Fantom.Symbol:    Fantom,
		Celo.Symbol:      Celo,
	}
}

// NewProvider merges configured definitions into the built-in ones.
//
// A configured entry with a family replaces the built-in definition of its symbol, or adds
// a new chain. An entry without a family only overrides the non-empty fields of a built-in
// definition (typically endpoint or apiKey); such an entry for an unknown symbol is skipped.
func NewProvider(log port.Logger, configured []entity.ChainDefinition) *Provider {
	p := &Provider{logger: log, defs: Builtin()}

	for _, c := range configured {
		sym := strings.ToUpper(strings.TrimSpace(c.Symbol))
		if sym == "" {
			continue
		}
		c.Symbol = sym

		if c.Family != "" {
			if c.Name == "" {
				c.Name = sym
			}
			if _, known := p.defs[sym]; known {
				p.logger.Debug(fmt.Sprintf("Chain '%s' replaced by configuration", sym))
			} else {
				p.logger.Debug(fmt.Sprintf("Chain '%s' added by configuration", sym), "family", string(c.Family))
			}
			p.defs[sym] = c
			continue
		}

		base, ok := p.defs[sym]
		if !ok {
			p.logger.Warn(fmt.Sprintf("Configured chain '%s' has no family and no built-in definition. Skipping.", sym))
			continue
		}
		p.defs[sym] = overlay(base, c)
	}

	p.logger.Info(fmt.Sprintf("Chain definitions initialized. Supported chains: %d", len(p.defs)))
	for _, def := range p.All() {
		p.logger.Debug(fmt.Sprintf("  - Chain: %s (%s, family: %s, endpoint: %s)", def.Symbol, def.Name, def.Family, def.Endpoint))
	}
	return p
}

func overlay(base, o entity.ChainDefinition) entity.ChainDefinition {
	if o.Name != "" {
		base.Name = o.Name
	}
	if o.Endpoint != "" {
		base.Endpoint = o.Endpoint
	}
	if o.APIKey != "" {
		base.APIKey = o.APIKey
	}
	if o.Decimals > 0 {
		base.Decimals = o.Decimals
	}
	if o.MaxAddressesPerCall > 0 {
		base.MaxAddressesPerCall = o.MaxAddressesPerCall
	}
	if o.SingleFallback {
		base.SingleFallback = true
	}
	return base
}

// All returns the definitions sorted by symbol.
func (p *Provider) All() []entity.ChainDefinition {
	if p == nil {
		return []entity.ChainDefinition{}
	}
	out := make([]entity.ChainDefinition, 0, len(p.defs))
	for _, def := range p.defs {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// BySymbol returns the definition for symbol, case-insensitively.
func (p *Provider) BySymbol(symbol string) (entity.ChainDefinition, bool) {
	if p == nil {
		return entity.ChainDefinition{}, false
	}
	def, ok := p.defs[strings.ToUpper(strings.TrimSpace(symbol))]
	return def, ok
}
