package client

import (
	"fmt"
	"sync"
	"time"

	"cryptowatch/internal/app/port"
	"cryptowatch/internal/domain/entity"
	"cryptowatch/internal/infrastructure/configloader"
	"cryptowatch/internal/infrastructure/fetch"

	"go.uber.org/zap"
)

const defaultCallTimeout = 10 * time.Second

// AdapterProvider builds and caches one chain adapter per coin symbol.
type AdapterProvider struct {
	mu          sync.Mutex
	adapters    map[string]port.ChainAdapter
	evmClients  []*EVMClient
	perf        configloader.PerformanceConfig
	callTimeout time.Duration
	logger      *zap.Logger
}

// NewAdapterProvider creates an AdapterProvider using the performance limits from cfg.
func NewAdapterProvider(cfg *configloader.Config, logger *zap.Logger) *AdapterProvider {
	callTimeout := time.Duration(cfg.Performance.RequestTimeoutMs) * time.Millisecond
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}
	return &AdapterProvider{
		adapters:    make(map[string]port.ChainAdapter),
		perf:        cfg.Performance,
		callTimeout: callTimeout,
		logger:      logger.Named("AdapterProvider"),
	}
}

// GetAdapter returns the adapter for def, creating it on first use.
func (p *AdapterProvider) GetAdapter(def entity.ChainDefinition) (port.ChainAdapter, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if a, exists := p.adapters[def.Symbol]; exists {
		return a, nil
	}

	if def.Endpoint == "" {
		return nil, fmt.Errorf("chain %s has no endpoint", def.Symbol)
	}

	var a port.ChainAdapter
	switch def.Family {
	case entity.FamilyAddressMap:
		a = NewAddressMapClient(def, p.newFetcher(), p.logger)
	case entity.FamilyAccountList:
		a = NewAccountListClient(def, p.newFetcher(), p.logger)
	case entity.FamilyEVMRPC:
		c := NewEVMClient(def, p.callTimeout, p.logger)
		p.evmClients = append(p.evmClients, c)
		a = c
	default:
		return nil, fmt.Errorf("unknown chain family %q for %s", def.Family, def.Symbol)
	}
	p.adapters[def.Symbol] = a
	p.logger.Debug("Created chain adapter",
		zap.String("symbol", def.Symbol),
		zap.String("family", string(def.Family)),
		zap.String("endpoint", def.Endpoint))
	return a, nil
}

// BuildAll creates adapters for every definition. A definition that cannot be served is
// logged and left out, so its coin reports as unsupported.
func (p *AdapterProvider) BuildAll(defs []entity.ChainDefinition) map[string]port.ChainAdapter {
	out := make(map[string]port.ChainAdapter, len(defs))
	for _, def := range defs {
		a, err := p.GetAdapter(def)
		if err != nil {
			p.logger.Error("Failed to create chain adapter", zap.String("symbol", def.Symbol), zap.Error(err))
			continue
		}
		out[def.Symbol] = a
	}
	return out
}

// Close releases JSON-RPC connections.
func (p *AdapterProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.evmClients {
		c.Close()
	}
}

// newFetcher gives each HTTP chain its own rate limit.
func (p *AdapterProvider) newFetcher() *fetch.Fetcher {
	return fetch.New(fetch.Options{
		Timeout:           p.callTimeout,
		RequestsPerSecond: p.perf.RequestsPerSecond,
		Burst:             p.perf.Burst,
		MaxRetries:        p.perf.MaxRetries,
	}, p.logger)
}
