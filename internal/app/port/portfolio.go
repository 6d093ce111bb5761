package port

import (
	"context"

	"cryptowatch/internal/domain/entity"
)

// PortfolioService builds the balance report consumed by renderers.
type PortfolioService interface {
	BuildReport(ctx context.Context, snapshot entity.WalletSnapshot) entity.Report
}
