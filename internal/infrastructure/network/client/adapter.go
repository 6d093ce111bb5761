package client

import (
	"context"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Getter fetches a URL and returns the 2xx response body.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// withQuery appends q to endpoint, respecting a query string already present.
func withQuery(endpoint string, q url.Values) string {
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + q.Encode()
}

// rawAmount strips JSON string quotes from a raw numeric field.
// A JSON null or an empty value yields "".
func rawAmount(raw jsoniter.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "null" {
		return ""
	}
	return strings.Trim(s, `"`)
}
