package pricefeed

import jsoniter "github.com/json-iterator/go"

// tickerListing is the wrapped listing shape, e.g. coinlore /api/tickers/.
type tickerListing struct {
	Data []tickerEntry `json:"data"`
}

// tickerEntry is one listing element. Prices arrive as JSON strings or numbers,
// so they are kept raw until parsed into decimals.
type tickerEntry struct {
	Symbol   string              `json:"symbol"`
	PriceUSD jsoniter.RawMessage `json:"price_usd"`
	PriceBTC jsoniter.RawMessage `json:"price_btc"`
}
