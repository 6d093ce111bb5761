package restapi

import (
	"errors"
	"net/http"
	"strings"

	"cryptowatch/internal/app/port"
	"cryptowatch/internal/domain/entity"
	"cryptowatch/internal/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// WalletService is the part of service.Wallet the handlers use.
type WalletService interface {
	AddAddresses(coin string, addrs []string) error
	AddManualBalance(coin string, amount decimal.Decimal) error
	RemoveAddresses(coin string, addrs []string) error
	RemoveManualBalance(coin string) error
	RemoveCoin(coin string) error
	DeleteWallet() error
	Snapshot() entity.WalletSnapshot
	Coin(symbol string) (*entity.TrackedCoin, bool)
}

// CoinView is the JSON form of one tracked coin.
type CoinView struct {
	Symbol        string          `json:"symbol"`
	Addresses     []string        `json:"addresses"`
	ManualBalance decimal.Decimal `json:"manualBalance"`
	Untracked     bool            `json:"untracked"`
}

// AddressesRequest is the body of the address endpoints.
type AddressesRequest struct {
	Addresses []string `json:"addresses"`
}

// BalanceRequest is the body of POST /coins/:symbol/balance.
type BalanceRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// ErrorResponse is returned with every 4xx/5xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PortfolioHandler serves the report and the wallet mutations.
type PortfolioHandler struct {
	portfolioService port.PortfolioService
	wallet           WalletService
	lookup           port.AddressLookup
	logger           *zap.Logger
}

// NewPortfolioHandler creates a PortfolioHandler.
func NewPortfolioHandler(ps port.PortfolioService, wallet WalletService, lookup port.AddressLookup, logger *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: ps,
		wallet:           wallet,
		lookup:           lookup,
		logger:           logger.Named("PortfolioHandler"),
	}
}

// GetPortfolio builds the report for the current wallet.
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	report := h.portfolioService.BuildReport(c.Request.Context(), h.wallet.Snapshot())
	c.JSON(http.StatusOK, report)
}

// GetCoins lists the tracked coins.
func (h *PortfolioHandler) GetCoins(c *gin.Context) {
	snap := h.wallet.Snapshot()
	coins := make([]CoinView, 0, len(snap))
	for _, sym := range snap.Symbols() {
		coins = append(coins, toCoinView(sym, snap[sym]))
	}
	c.JSON(http.StatusOK, gin.H{"coins": coins})
}

// GetChains lists the coin symbols that have an address lookup.
func (h *PortfolioHandler) GetChains(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"chains": h.lookup.Supported()})
}

// AddAddresses handles POST /coins/:symbol/addresses.
func (h *PortfolioHandler) AddAddresses(c *gin.Context) {
	addrs, ok := h.bindAddresses(c)
	if !ok {
		return
	}
	h.respondMutation(c, h.wallet.AddAddresses(c.Param("symbol"), addrs))
}

// RemoveAddresses handles DELETE /coins/:symbol/addresses.
func (h *PortfolioHandler) RemoveAddresses(c *gin.Context) {
	addrs, ok := h.bindAddresses(c)
	if !ok {
		return
	}
	h.respondMutation(c, h.wallet.RemoveAddresses(c.Param("symbol"), addrs))
}

// AddBalance handles POST /coins/:symbol/balance.
func (h *PortfolioHandler) AddBalance(c *gin.Context) {
	var req BalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.Amount == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount is required"})
		return
	}
	h.respondMutation(c, h.wallet.AddManualBalance(c.Param("symbol"), *req.Amount))
}

// RemoveBalance handles DELETE /coins/:symbol/balance.
func (h *PortfolioHandler) RemoveBalance(c *gin.Context) {
	h.respondMutation(c, h.wallet.RemoveManualBalance(c.Param("symbol")))
}

// RemoveCoin handles DELETE /coins/:symbol.
func (h *PortfolioHandler) RemoveCoin(c *gin.Context) {
	if err := h.wallet.RemoveCoin(c.Param("symbol")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteWallet handles DELETE /wallet.
func (h *PortfolioHandler) DeleteWallet(c *gin.Context) {
	if err := h.wallet.DeleteWallet(); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PortfolioHandler) bindAddresses(c *gin.Context) ([]string, bool) {
	var req AddressesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return nil, false
	}
	addrs := utils.CleanList(req.Addresses)
	if len(addrs) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "addresses must contain at least one address"})
		return nil, false
	}
	return addrs, true
}

// respondMutation answers with the coin's state after a successful mutation.
func (h *PortfolioHandler) respondMutation(c *gin.Context, err error) {
	if err != nil {
		h.respondError(c, err)
		return
	}
	sym := c.Param("symbol")
	coin, ok := h.wallet.Coin(sym)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, toCoinView(normalize(sym), coin))
}

func (h *PortfolioHandler) respondError(c *gin.Context, err error) {
	if errors.Is(err, port.ErrInvalidSymbol) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	h.logger.Error("Wallet mutation failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}

func toCoinView(sym string, c *entity.TrackedCoin) CoinView {
	v := CoinView{Symbol: sym, Addresses: []string{}, ManualBalance: decimal.Zero, Untracked: true}
	if c != nil {
		v.Addresses = c.SortedAddresses()
		v.ManualBalance = c.ManualBalance
		v.Untracked = c.IsUntracked()
	}
	return v
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
