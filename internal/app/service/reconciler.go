package service

import (
	"context"
	"errors"
	"time"

	"cryptowatch/internal/app/port"
	"cryptowatch/internal/domain/entity"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Reconciler combines address balances, manual balances and unit prices into a Report.
// It implements port.PortfolioService.
type Reconciler struct {
	lookup        port.AddressLookup
	prices        port.PriceLookup
	maxConcurrent int
	now           func() time.Time
	logger        *zap.Logger
}

// NewReconciler creates a Reconciler that runs at most maxConcurrent address lookups at once.
func NewReconciler(lookup port.AddressLookup, prices port.PriceLookup, maxConcurrent int, logger *zap.Logger) *Reconciler {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Reconciler{
		lookup:        lookup,
		prices:        prices,
		maxConcurrent: maxConcurrent,
		now:           time.Now,
		logger:        logger.Named("Reconciler"),
	}
}

// BuildReport implements port.PortfolioService. Rows are ordered by symbol. A coin whose
// lookup fails still gets a row built from its manual balance.
func (r *Reconciler) BuildReport(ctx context.Context, snapshot entity.WalletSnapshot) entity.Report {
	report := entity.Report{
		Rows:        []entity.PortfolioRow{},
		TotalUSD:    decimal.Zero,
		TotalBase:   decimal.Zero,
		GeneratedAt: r.now().UTC(),
	}
	symbols := snapshot.Symbols()
	if len(symbols) == 0 {
		report.Empty = true
		return report
	}

	var prices []entity.UnitPrice
	priceDone := make(chan struct{})
	go func() {
		defer close(priceDone)
		prices = r.prices.Lookup(ctx, symbols)
	}()

	amounts := make([]decimal.Decimal, len(symbols))
	statuses := make([]entity.LookupStatus, len(symbols))

	var eg errgroup.Group
	eg.SetLimit(r.maxConcurrent)
	for i, sym := range symbols {
		coin := snapshot[sym]
		eg.Go(func() error {
			amounts[i], statuses[i] = r.coinAmount(ctx, sym, coin)
			return nil
		})
	}
	_ = eg.Wait()
	<-priceDone

	totalUSD, totalBase := decimal.Zero, decimal.Zero
	report.Rows = make([]entity.PortfolioRow, len(symbols))
	for i, sym := range symbols {
		row := entity.PortfolioRow{
			Symbol:    sym,
			Amount:    amounts[i],
			ValueUSD:  entity.Unavailable(),
			ValueBase: entity.Unavailable(),
			Lookup:    statuses[i],
		}
		if i < len(prices) && prices[i].Known {
			row.ValueUSD = entity.Available(amounts[i].Mul(prices[i].USD).Round(entity.USDPlaces))
			row.ValueBase = entity.Available(amounts[i].Mul(prices[i].Base).Round(entity.BasePlaces))
			totalUSD = totalUSD.Add(row.ValueUSD.Amount)
			totalBase = totalBase.Add(row.ValueBase.Amount)
		}
		report.Rows[i] = row
	}
	report.TotalUSD = totalUSD.Round(entity.USDPlaces)
	report.TotalBase = totalBase.Round(entity.BasePlaces)

	r.logger.Debug("Portfolio report built",
		zap.Int("coins", len(symbols)),
		zap.String("totalUSD", report.TotalUSD.String()))
	return report
}

// coinAmount returns the rounded holding of one coin and how its address lookup went.
func (r *Reconciler) coinAmount(ctx context.Context, sym string, coin *entity.TrackedCoin) (decimal.Decimal, entity.LookupStatus) {
	if coin == nil {
		return decimal.Zero, entity.LookupNone
	}

	fromAddresses := decimal.Zero
	status := entity.LookupNone
	if addrs := coin.SortedAddresses(); len(addrs) > 0 {
		balances, err := r.lookup.Lookup(ctx, sym, addrs)
		switch {
		case errors.Is(err, port.ErrUnsupportedCoin):
			status = entity.LookupUnsupported
		case err != nil:
			r.logger.Warn("Address balances unavailable, using manual balance only",
				zap.String("symbol", sym), zap.Error(err))
			status = entity.LookupFailed
		default:
			fromAddresses = entity.SumContributing(balances)
			status = entity.StatusOf(balances)
		}
	}

	return fromAddresses.Add(coin.ManualBalance).Round(entity.AmountPlaces), status
}
