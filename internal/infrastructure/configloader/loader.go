package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"cryptowatch/internal/domain/entity"
	"cryptowatch/internal/pkg/utils"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP API settings. Timeouts are in seconds.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`
}

// WalletConfig points at the persisted wallet snapshot.
type WalletConfig struct {
	Path string `yaml:"path"`
}

// PriceFeedConfig configures the ticker listing.
type PriceFeedConfig struct {
	URL             string `yaml:"url"`
	CacheTTLSeconds int    `yaml:"cacheTTLSeconds"`
}

// PerformanceConfig bounds upstream traffic.
type PerformanceConfig struct {
	RequestTimeoutMs     int64   `yaml:"requestTimeoutMs"`
	MaxConcurrentLookups int     `yaml:"maxConcurrentLookups"`
	RequestsPerSecond    float64 `yaml:"requestsPerSecond"`
	Burst                int     `yaml:"burst"`
	MaxRetries           int     `yaml:"maxRetries"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server      ServerConfig             `yaml:"server"`
	Logging     LoggingConfig            `yaml:"logging"`
	Wallet      WalletConfig             `yaml:"wallet"`
	PriceFeed   PriceFeedConfig          `yaml:"priceFeed"`
	Performance PerformanceConfig        `yaml:"performance"`
	Chains      []entity.ChainDefinition `yaml:"chains"`
}

const (
	DefaultPort                 = "8080"
	DefaultWalletPath           = "~/.cryptowatch/wallet.json"
	DefaultPriceFeedURL         = "https://api.coinlore.net/api/tickers/?start=0&limit=100"
	DefaultPriceCacheTTLSeconds = 60
	DefaultRequestTimeoutMs     = 10000
	DefaultMaxConcurrent        = 4
	DefaultRequestsPerSecond    = 5
	DefaultBurst                = 1
	DefaultMaxRetries           = 2
)

// Load reads the YAML configuration file at path and applies defaults.
// A missing file is not an error: the defaults are returned.
func Load(path string) (*Config, error) {
	// Keys whose zero value is meaningful are preset so that an explicit 0 survives decoding.
	cfg := Config{
		PriceFeed:   PriceFeedConfig{CacheTTLSeconds: DefaultPriceCacheTTLSeconds},
		Performance: PerformanceConfig{MaxRetries: DefaultMaxRetries},
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logrus.Infof("Config file %s not found, using defaults", path)
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 60
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 120
	}

	if p := utils.GetEnv("CRYPTOWATCH_WALLET", ""); p != "" {
		cfg.Wallet.Path = p
	}
	if cfg.Wallet.Path == "" {
		cfg.Wallet.Path = DefaultWalletPath
		logrus.Infof("wallet.path not set, defaulting to %s", cfg.Wallet.Path)
	}
	cfg.Wallet.Path = utils.ExpandHome(cfg.Wallet.Path)

	if cfg.PriceFeed.URL == "" {
		cfg.PriceFeed.URL = DefaultPriceFeedURL
		logrus.Infof("priceFeed.url not set, defaulting to %s", cfg.PriceFeed.URL)
	}
	if cfg.PriceFeed.CacheTTLSeconds < 0 {
		cfg.PriceFeed.CacheTTLSeconds = 0
	}

	if cfg.Performance.RequestTimeoutMs <= 0 {
		cfg.Performance.RequestTimeoutMs = DefaultRequestTimeoutMs
		logrus.Infof("performance.requestTimeoutMs not set, defaulting to %d ms", cfg.Performance.RequestTimeoutMs)
	}
	if cfg.Performance.MaxConcurrentLookups <= 0 {
		cfg.Performance.MaxConcurrentLookups = DefaultMaxConcurrent
	}
	if cfg.Performance.RequestsPerSecond <= 0 {
		cfg.Performance.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Performance.Burst <= 0 {
		cfg.Performance.Burst = DefaultBurst
	}
	if cfg.Performance.MaxRetries < 0 {
		cfg.Performance.MaxRetries = 0
	}

	for i := range cfg.Chains {
		cfg.Chains[i].Symbol = strings.ToUpper(strings.TrimSpace(cfg.Chains[i].Symbol))
	}
}

func validate(cfg *Config) error {
	seen := make(map[string]bool, len(cfg.Chains))
	for i, ch := range cfg.Chains {
		if ch.Symbol == "" {
			return fmt.Errorf("chains[%d]: symbol is required", i)
		}
		if seen[ch.Symbol] {
			return fmt.Errorf("chains[%d]: duplicate symbol %s", i, ch.Symbol)
		}
		seen[ch.Symbol] = true
		switch ch.Family {
		case entity.FamilyAddressMap, entity.FamilyAccountList, entity.FamilyEVMRPC:
		case "":
			// family may be omitted to override only some fields of a built-in chain
		default:
			return fmt.Errorf("chains[%d]: unknown family %q", i, ch.Family)
		}
		if ch.Decimals < 0 {
			return fmt.Errorf("chains[%d]: negative decimals", i)
		}
	}
	return nil
}
