package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gincla/nightsky/pkg/cache"
	"github.com/gincla/nightsky/pkg/errors"
	"github.com/gincla/nightsky/pkg/observability"
)

const (
	// MaxBodySize is the default limit on a response body. Longer bodies
	// fail with INVALID_INPUT and are never cached.
	MaxBodySize = 32 << 20

	// DefaultRetryDelay is the wait before the first retry.
	DefaultRetryDelay = time.Second
)

// Client fetches documents over HTTP.
type Client struct {
	http     *http.Client
	cache    cache.Cache
	ttl      time.Duration
	attempts int
	delay    time.Duration
	headers  map[string]string
	maxBody  int64
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// WithCache stores successful response bodies in cc for ttl.
func WithCache(cc cache.Cache, ttl time.Duration) ClientOption {
	return func(c *Client) { c.cache, c.ttl = cc, ttl }
}

// WithRetry retries transient failures up to attempts times in total,
// starting with delay between attempts.
func WithRetry(attempts int, delay time.Duration) ClientOption {
	return func(c *Client) { c.attempts, c.delay = attempts, delay }
}

// WithHeader sets a header on every request.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) { c.headers[key] = value }
}

// WithMaxBodySize rejects responses longer than n bytes.
func WithMaxBodySize(n int64) ClientOption {
	return func(c *Client) { c.maxBody = n }
}

// NewClient creates a client. Without options it makes a single attempt,
// never times out and caches nothing.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http:     &http.Client{},
		cache:    cache.NewNullCache(),
		attempts: 1,
		delay:    DefaultRetryDelay,
		headers:  map[string]string{},
		maxBody:  MaxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the body at url, serving it from the cache when possible.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	key := cache.Key("http", url)
	if data, ok, _ := c.cache.Get(ctx, key); ok {
		observability.Cache().OnCacheHit(ctx, "http")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "http")

	var body []byte
	err := Retry(ctx, c.attempts, c.delay, func() error {
		var err error
		body, err = c.get(ctx, url)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, body, c.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, "http", len(body))
	}
	return body, nil
}

// Invalidate drops the cached body for url.
func (c *Client) Invalidate(ctx context.Context, url string) error {
	return c.cache.Delete(ctx, cache.Key("http", url))
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request URL")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "request to %s cancelled", url)
		}
		return nil, Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "request to %s failed", url))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(url, resp.StatusCode); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read body of %s", url))
	}
	if int64(len(data)) > c.maxBody {
		return nil, errors.New(errors.ErrCodeInvalidInput, "response from %s too large: over %d bytes", url, c.maxBody)
	}
	return data, nil
}

func checkStatus(url string, code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "resource not found: %s", url)
	case code >= 500:
		return Retryable(errors.New(errors.ErrCodeNetwork, "%s: status %d", url, code))
	default:
		return errors.New(errors.ErrCodeNetwork, "%s: status %d", url, code)
	}
}

// String identifies the client in debug logs.
func (c *Client) String() string {
	return fmt.Sprintf("httputil.Client{attempts: %d, timeout: %s}", c.attempts, c.http.Timeout)
}
