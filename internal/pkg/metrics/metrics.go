package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes of a chain lookup.
const (
	OutcomeOK            = "ok"
	OutcomePartial       = "partial"
	OutcomeFailure       = "failure"
	OutcomeOrderMismatch = "order_mismatch"
	OutcomeUnsupported   = "unsupported"
)

var (
	// ChainLookups counts dispatcher lookups per coin and outcome.
	ChainLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptowatch_chain_lookups_total",
		Help: "Address balance lookups by coin symbol and outcome",
	}, []string{"symbol", "outcome"})

	// PriceFeedFetches counts ticker listing fetches by outcome (ok, failure, cached).
	PriceFeedFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptowatch_price_feed_fetches_total",
		Help: "Price feed listing fetches by outcome",
	}, []string{"outcome"})

	// UpstreamDuration observes upstream request latency per host.
	UpstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cryptowatch_upstream_request_duration_seconds",
		Help:    "Upstream HTTP request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 8),
	}, []string{"host"})

	// WalletMutations counts wallet state mutations by operation and outcome.
	WalletMutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptowatch_wallet_mutations_total",
		Help: "Wallet mutations by operation and outcome",
	}, []string{"op", "outcome"})

	registerOnce sync.Once
)

// MustRegisterMetrics registers every collector with the default registry. Safe to call twice.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ChainLookups, PriceFeedFetches, UpstreamDuration, WalletMutations)
	})
}
