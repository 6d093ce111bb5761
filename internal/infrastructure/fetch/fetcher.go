package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cryptowatch/internal/pkg/metrics"

	"github.com/cenkalti/backoff/v5"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const userAgent = "cryptowatch/1.0"

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	URL  string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d: %s", e.URL, e.Code, e.Body)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// Options tune a Fetcher.
type Options struct {
	Timeout              time.Duration // per attempt
	RequestsPerSecond    float64       // 0 disables rate limiting
	Burst                int
	MaxRetries           int
	RetryInitialInterval time.Duration
}

// Fetcher performs bounded GET requests against one upstream API.
type Fetcher struct {
	client     *fasthttp.Client
	timeout    time.Duration
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger
}

// New creates a Fetcher.
func New(opts Options, logger *zap.Logger) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RetryInitialInterval <= 0 {
		opts.RetryInitialInterval = 250 * time.Millisecond
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	return &Fetcher{
		client: &fasthttp.Client{
			Name:                userAgent,
			MaxIdleConnDuration: 30 * time.Second,
		},
		timeout:    opts.Timeout,
		limiter:    limiter,
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryInitialInterval,
		logger:     logger.Named("Fetcher"),
	}
}

// Get fetches url and returns the response body. Network errors, 429 and 5xx are retried
// with exponential backoff; other non-2xx answers fail immediately with a *StatusError.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	op := func() ([]byte, error) {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("rate limiter: %w", err))
		}
		body, err := f.do(ctx, url)
		if err == nil {
			return body, nil
		}
		var se *StatusError
		if errors.As(err, &se) && se.Code != fasthttp.StatusTooManyRequests && se.Code < 500 {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.retryDelay

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(f.maxRetries+1)),
		backoff.WithNotify(func(err error, next time.Duration) {
			f.logger.Debug("Retrying upstream request", zap.String("url", url), zap.Duration("in", next), zap.Error(err))
		}),
	)
}

func (f *Fetcher) do(ctx context.Context, url string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	deadline := time.Now().Add(f.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	f.logger.Debug("Requesting upstream", zap.String("url", url))
	start := time.Now()
	err := f.client.DoDeadline(req, resp, deadline)
	metrics.UpstreamDuration.WithLabelValues(string(req.URI().Host())).Observe(time.Since(start).Seconds())
	if err != nil {
		f.logger.Warn("Failed to execute upstream request", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request to %s: %w", url, err)
	}

	body := append([]byte(nil), resp.Body()...)
	if code := resp.StatusCode(); code < 200 || code > 299 {
		f.logger.Warn("Upstream request failed",
			zap.String("url", url),
			zap.Int("statusCode", code),
			zap.ByteString("responseBody", truncate(body, 512)))
		return nil, &StatusError{URL: url, Code: code, Body: string(truncate(body, 512))}
	}
	return body, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
