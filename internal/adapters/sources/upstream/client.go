// Package upstream is the HTTP plumbing shared by the score providers:
// one timeout-bounded JSON GET guarded by a local daily request quota.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/matchday/pkg/metrics"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
	day            = 24 * time.Hour
)

// Client performs provider requests for one source.
type Client struct {
	source     string
	httpClient *http.Client
	quota      *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying client; its timeout is kept if set.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			if hc.Timeout <= 0 {
				hc.Timeout = c.httpClient.Timeout
			}
			c.httpClient = hc
		}
	}
}

// WithDailyQuota limits requests to n per 24h, refilled evenly. n <= 0 disables the guard.
func WithDailyQuota(n int) Option {
	return func(c *Client) {
		if n <= 0 {
			c.quota = nil
			return
		}
		c.quota = rate.NewLimiter(rate.Every(day/time.Duration(n)), n)
	}
}

// NewClient creates a Client labelled with source for metrics.
func NewClient(source string, opts ...Option) *Client {
	c := &Client{
		source:     source,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON issues a GET and decodes a 2xx JSON body into out.
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, out any) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordUpstreamRequest(c.source, Outcome(err), time.Since(start).Seconds())
	}()

	if c.quota != nil && !c.quota.Allow() {
		return ErrQuotaExhausted
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequest, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrRequest, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}
