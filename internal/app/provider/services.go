package provider

import (
	"fmt"
	"time"

	"cryptowatch/internal/app/service"
	"cryptowatch/internal/infrastructure/configloader"
	"cryptowatch/internal/infrastructure/fetch"
	clientprovider "cryptowatch/internal/infrastructure/network/client"
	networkdefinition "cryptowatch/internal/infrastructure/network/definition"
	"cryptowatch/internal/infrastructure/pricefeed"
	"cryptowatch/internal/infrastructure/snapshot"
	"cryptowatch/internal/pkg/logger"

	"go.uber.org/zap"
)

// Services is the wired application shared by the HTTP server and the CLI.
type Services struct {
	Wallet     *service.Wallet
	Dispatcher *service.Dispatcher
	Prices     *service.PriceService
	Reconciler *service.Reconciler
	Chains     *networkdefinition.Provider
	Store      *snapshot.FileStore

	adapters *clientprovider.AdapterProvider
}

// NewServices wires every component from cfg and loads the stored wallet.
func NewServices(cfg *configloader.Config, zl *zap.Logger) (*Services, error) {
	appLogger := logger.NewZapAdapter(zl)

	chains := networkdefinition.NewProvider(appLogger, cfg.Chains)
	adapters := clientprovider.NewAdapterProvider(cfg, zl)
	dispatcher := service.NewDispatcher(adapters.BuildAll(chains.All()), zl)

	timeout := time.Duration(cfg.Performance.RequestTimeoutMs) * time.Millisecond
	feedFetcher := fetch.New(fetch.Options{
		Timeout:           timeout,
		RequestsPerSecond: cfg.Performance.RequestsPerSecond,
		Burst:             cfg.Performance.Burst,
		MaxRetries:        cfg.Performance.MaxRetries,
	}, zl)
	feed := pricefeed.NewClient(cfg.PriceFeed.URL, feedFetcher, zl)
	prices := service.NewPriceService(feed, time.Duration(cfg.PriceFeed.CacheTTLSeconds)*time.Second, zl)

	reconciler := service.NewReconciler(dispatcher, prices, cfg.Performance.MaxConcurrentLookups, zl)

	store := snapshot.NewFileStore(cfg.Wallet.Path, appLogger)
	wallet := service.NewWallet(store, zl)
	if err := wallet.Load(); err != nil {
		adapters.Close()
		return nil, fmt.Errorf("failed to initialize wallet: %w", err)
	}

	return &Services{
		Wallet:     wallet,
		Dispatcher: dispatcher,
		Prices:     prices,
		Reconciler: reconciler,
		Chains:     chains,
		Store:      store,
		adapters:   adapters,
	}, nil
}

// Close releases upstream connections.
func (s *Services) Close() {
	s.adapters.Close()
}
