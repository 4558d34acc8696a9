package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
	"golang.org/x/net/proxy"
	"golang.org/x/time/rate"
)

// Client is the plain HTTP fetcher. It rate-limits requests against the
// target site, retries transient failures with doubling backoff, caps
// the response body size and tolerates non-UTF-8 pages.
type Client struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	retries     int
	backoff     time.Duration
	maxBodySize int64
	userAgent   string
	headers     map[string]string
	logger      *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = ua }
}

// WithHeaders sets extra headers sent with every request.
func WithHeaders(headers map[string]string) ClientOption {
	return func(c *Client) { c.headers = headers }
}

// WithRetries sets the number of retries after the first attempt for
// transient failures. Zero disables retrying.
func WithRetries(n int) ClientOption {
	return func(c *Client) { c.retries = n }
}

// WithBackoff sets the wait before the first retry. The wait doubles on
// each subsequent retry.
func WithBackoff(d time.Duration) ClientOption {
	return func(c *Client) { c.backoff = d }
}

// WithRateLimit caps the request rate in requests per second.
// Zero or negative means unlimited.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithMaxBodySize caps the response body size in bytes.
func WithMaxBodySize(n int64) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// WithLogger sets the logger for fetch diagnostics.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates an HTTP fetcher. The proxyURI routes all traffic
// through a SOCKS5 or HTTP proxy when non-empty; credentials may be
// embedded in the URI. An unsupported scheme or unparseable URI is a
// construction error, not a fetch error, so misconfiguration surfaces
// before the first request.
func NewClient(proxyURI string, opts ...ClientOption) (*Client, error) {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     30 * time.Second,
	}

	if proxyURI != "" {
		if err := configureProxy(transport, proxyURI); err != nil {
			return nil, err
		}
	}

	c := &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
		maxBodySize: 5 * 1024 * 1024,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// configureProxy routes the transport through the proxy named by uri.
// socks5 proxies get a dedicated dialer; http and https proxies use the
// transport's own proxy support.
func configureProxy(transport *http.Transport, uri string) error {
	u, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("parse proxy URI: %w", err)
	}

	switch u.Scheme {
	case "socks5":
		var auth *proxy.Auth
		if u.User != nil {
			password, _ := u.User.Password()
			auth = &proxy.Auth{User: u.User.Username(), Password: password}
		}
		dialer, err := proxy.SOCKS5("tcp", u.Host, auth, proxy.Direct)
		if err != nil {
			return fmt.Errorf("create SOCKS5 dialer: %w", err)
		}
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		}
	case "http", "https":
		transport.Proxy = http.ProxyURL(u)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedProxyScheme, u.Scheme)
	}
	return nil
}

// Fetch retrieves pageURL and parses the response body. Transient
// failures are retried with doubling backoff up to the retry budget;
// permanent failures return immediately.
func (c *Client) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	var doc *goquery.Document
	err := withRetry(ctx, c.retries, c.backoff, func() error {
		var err error
		doc, err = c.fetchOnce(ctx, pageURL)
		if err != nil {
			c.logger.Debug("fetch attempt failed", "url", pageURL, "error", err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// fetchOnce performs a single rate-limited request and parse.
func (c *Client) fetchOnce(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, URL: pageURL}
	}

	// The body is capped before decoding so a runaway response cannot
	// exhaust memory. Truncation at the cap yields a partial but
	// parseable document.
	body := io.LimitReader(resp.Body, c.maxBodySize)
	decoded, err := charset.NewReader(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(decoded)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	doc.Url = resp.Request.URL
	return doc, nil
}

// withRetry runs fn up to retries+1 times, doubling the backoff between
// attempts. Permanent errors and context cancellation stop retrying
// immediately. When the budget runs out the last error is wrapped in
// ErrRetriesExhausted.
func withRetry(ctx context.Context, retries int, backoff time.Duration, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if IsPermanent(lastErr) || ctx.Err() != nil {
			return lastErr
		}
	}
	if retries > 0 {
		return fmt.Errorf("%w: %w", ErrRetriesExhausted, lastErr)
	}
	return lastErr
}
