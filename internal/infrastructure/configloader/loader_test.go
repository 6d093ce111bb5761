package configloader

import (
	"os"
	"path/filepath"
	"testing"

	"cryptowatch/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("CRYPTOWATCH_WALLET", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultPriceFeedURL, cfg.PriceFeed.URL)
	assert.Equal(t, DefaultPriceCacheTTLSeconds, cfg.PriceFeed.CacheTTLSeconds)
	assert.Equal(t, int64(DefaultRequestTimeoutMs), cfg.Performance.RequestTimeoutMs)
	assert.Equal(t, DefaultMaxConcurrent, cfg.Performance.MaxConcurrentLookups)
	assert.Equal(t, DefaultMaxRetries, cfg.Performance.MaxRetries)
	assert.NotContains(t, cfg.Wallet.Path, "~", "home directory is expanded")
	assert.Equal(t, "wallet.json", filepath.Base(cfg.Wallet.Path))
}

func TestLoadParsesSections(t *testing.T) {
	t.Setenv("CRYPTOWATCH_WALLET", "")
	p := writeConfig(t, `
server:
  port: "9090"
logging:
  level: debug
wallet:
  path: /tmp/w.json
priceFeed:
  url: http://feed.local/tickers
  cacheTTLSeconds: -1
performance:
  requestTimeoutMs: 1500
  maxConcurrentLookups: 8
chains:
  - symbol: " eth "
    apiKey: abc
  - symbol: arb
    family: evmrpc
    endpoint: https://arb1.arbitrum.io/rpc
    decimals: 18
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/w.json", cfg.Wallet.Path)
	assert.Equal(t, "http://feed.local/tickers", cfg.PriceFeed.URL)
	assert.Equal(t, 0, cfg.PriceFeed.CacheTTLSeconds, "negative TTL disables the cache")
	assert.Equal(t, int64(1500), cfg.Performance.RequestTimeoutMs)
	assert.Equal(t, 8, cfg.Performance.MaxConcurrentLookups)

	require.Len(t, cfg.Chains, 2)
	assert.Equal(t, "ETH", cfg.Chains[0].Symbol)
	assert.Equal(t, "abc", cfg.Chains[0].APIKey)
	assert.Equal(t, entity.FamilyEVMRPC, cfg.Chains[1].Family)
	assert.Equal(t, int32(18), cfg.Chains[1].Decimals)
}

func TestExplicitZeroDisablesCacheAndRetries(t *testing.T) {
	t.Setenv("CRYPTOWATCH_WALLET", "")
	cfg, err := Load(writeConfig(t, "priceFeed: {cacheTTLSeconds: 0}\nperformance: {maxRetries: 0}\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.PriceFeed.CacheTTLSeconds)
	assert.Equal(t, 0, cfg.Performance.MaxRetries)

	cfg, err = Load(writeConfig(t, "priceFeed: {url: http://feed.local}\nperformance: {burst: 3}\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPriceCacheTTLSeconds, cfg.PriceFeed.CacheTTLSeconds, "absent key keeps the default")
	assert.Equal(t, DefaultMaxRetries, cfg.Performance.MaxRetries)
}

func TestWalletPathFromEnvironment(t *testing.T) {
	t.Setenv("CRYPTOWATCH_WALLET", "/var/lib/cw/wallet.json")
	cfg, err := Load(writeConfig(t, "wallet:\n  path: /ignored.json\n"))
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/cw/wallet.json", cfg.Wallet.Path)
}

func TestLoadRejectsInvalidChains(t *testing.T) {
	cases := map[string]string{
		"unknown family": "chains:\n  - symbol: BTC\n    family: telepathy\n",
		"duplicate":      "chains:\n  - symbol: btc\n  - symbol: BTC\n",
		"blank symbol":   "chains:\n  - symbol: \"\"\n    family: evmrpc\n",
		"negative dec":   "chains:\n  - symbol: X\n    family: evmrpc\n    decimals: -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [\n"))
	assert.Error(t, err)
}
