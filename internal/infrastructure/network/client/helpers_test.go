package client

import (
	"context"
	"net/url"
	"sync"
)

// fakeGetter answers from a handler and records the requested URLs.
type fakeGetter struct {
	mu      sync.Mutex
	urls    []string
	handler func(u *url.URL) ([]byte, error)
}

func (g *fakeGetter) Get(_ context.Context, raw string) ([]byte, error) {
	g.mu.Lock()
	g.urls = append(g.urls, raw)
	g.mu.Unlock()
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return g.handler(u)
}

func (g *fakeGetter) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.urls)
}
