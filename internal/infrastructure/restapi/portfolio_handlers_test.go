package restapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cryptowatch/internal/app/port"
	"cryptowatch/internal/app/service"
	"cryptowatch/internal/domain/entity"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memStore struct {
	snap    entity.WalletSnapshot
	failing bool
}

func (m *memStore) Load() (entity.WalletSnapshot, error) { return entity.WalletSnapshot{}, nil }
func (m *memStore) Save(s entity.WalletSnapshot) error {
	if m.failing {
		return errors.New("read-only file system")
	}
	m.snap = s.Clone()
	return nil
}
func (m *memStore) Delete() error {
	m.snap = nil
	return nil
}

type noTickers struct{}

func (noTickers) Tickers(context.Context) ([]entity.Ticker, error) { return nil, errors.New("offline") }

type testAPI struct {
	router *gin.Engine
	wallet *service.Wallet
	store  *memStore
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	store := &memStore{}
	wallet := service.NewWallet(store, log)
	require.NoError(t, wallet.Load())

	dispatcher := service.NewDispatcher(map[string]port.ChainAdapter{}, log)
	prices := service.NewPriceService(noTickers{}, 0, log)
	reconciler := service.NewReconciler(dispatcher, prices, 2, log)

	handler := NewPortfolioHandler(reconciler, wallet, dispatcher, log)
	return &testAPI{router: SetupRouter(handler, log), wallet: wallet, store: store}
}

func (a *testAPI) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestAddAddressesEndpoint(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/v1/coins/btc/addresses", `{"addresses":["1B","1A","1A"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"symbol":"BTC","addresses":["1A","1B"],"manualBalance":"0","untracked":false}`, w.Body.String())

	w = api.do(http.MethodDelete, "/api/v1/coins/BTC/addresses", `{"addresses":["1A"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"symbol":"BTC","addresses":["1B"],"manualBalance":"0","untracked":false}`, w.Body.String())
}

func TestAddAddressesRejectsBadBodies(t *testing.T) {
	api := newTestAPI(t)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/v1/coins/BTC/addresses", `{"addresses":`).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/v1/coins/BTC/addresses", `{"addresses":[" "]}`).Code)
	assert.Empty(t, api.wallet.Coins())
}

func TestBalanceEndpoints(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/v1/coins/eth/balance", `{"amount":"1.5"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = api.do(http.MethodPost, "/api/v1/coins/eth/balance", `{"amount":0.25}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"symbol":"ETH","addresses":[],"manualBalance":"1.75","untracked":false}`, w.Body.String())

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/v1/coins/eth/balance", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/v1/coins/eth/balance", `{"amount":"lots"}`).Code)

	w = api.do(http.MethodDelete, "/api/v1/coins/eth/balance", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"symbol":"ETH","addresses":[],"manualBalance":"0","untracked":true}`, w.Body.String())
}

func TestRemoveCoinAndDeleteWallet(t *testing.T) {
	api := newTestAPI(t)
	require.NoError(t, api.wallet.AddAddresses("BTC", []string{"1A"}))
	require.NoError(t, api.wallet.AddAddresses("ETH", []string{"0xaa"}))

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/v1/coins/btc", "").Code)
	assert.Equal(t, []string{"ETH"}, api.wallet.Coins())
	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/v1/coins/DOGE", "").Code)

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/v1/wallet", "").Code)
	assert.Empty(t, api.wallet.Coins())
}

func TestPersistenceFailureIs500(t *testing.T) {
	api := newTestAPI(t)
	api.store.failing = true

	w := api.do(http.MethodPost, "/api/v1/coins/BTC/addresses", `{"addresses":["1A"]}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "read-only file system")
}

func TestPortfolioEndpoint(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/api/v1/portfolio", "")
	require.Equal(t, http.StatusOK, w.Code)
	var empty map[string]any
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &empty))
	assert.Equal(t, true, empty["empty"])

	require.NoError(t, api.wallet.AddAddresses("DOGE", []string{"D1"}))
	w = api.do(http.MethodGet, "/api/v1/portfolio", "")
	require.Equal(t, http.StatusOK, w.Code)

	var report struct {
		Rows []struct {
			Symbol        string  `json:"symbol"`
			ValueUSD      *string `json:"valueUSD"`
			ValueBTC      *string `json:"valueBTC"`
			AddressLookup string  `json:"addressLookup"`
		} `json:"rows"`
		Empty bool `json:"empty"`
	}
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &report))
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "DOGE", report.Rows[0].Symbol)
	assert.Nil(t, report.Rows[0].ValueUSD, "unpriced value is null, not zero")
	assert.Nil(t, report.Rows[0].ValueBTC)
	assert.Equal(t, "unsupported", report.Rows[0].AddressLookup)
	assert.False(t, report.Empty)
}

func TestCoinsChainsAndHealth(t *testing.T) {
	api := newTestAPI(t)
	require.NoError(t, api.wallet.AddAddresses("BTC", []string{"1A"}))

	w := api.do(http.MethodGet, "/api/v1/coins", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"coins":[{"symbol":"BTC","addresses":["1A"],"manualBalance":"0","untracked":false}]}`, w.Body.String())

	w = api.do(http.MethodGet, "/api/v1/chains", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"chains":[]}`, w.Body.String())

	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/metrics", "").Code)
}
