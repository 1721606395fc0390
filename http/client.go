// Package http provides MediaWiki API clients implementing the wikitxt
// retrieval interfaces: article markup, interlanguage links and images.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/wikitxt"
)

// Defaults for the Chinese Wikipedia.
const (
	DefaultAPIURL    = "https://zh.wikipedia.org/w/api.php"
	DefaultRESTURL   = "https://zh.wikipedia.org/api/rest_v1/page/html"
	DefaultVariant   = "zh-tw"
	DefaultUserAgent = "wikitxt/1.0 (https://github.com/fwojciec/wikitxt)"

	// DefaultFetchTimeout is the default timeout for a single HTTP request.
	DefaultFetchTimeout = 30 * time.Second
)

// Client performs requests against a MediaWiki site with a fixed
// User-Agent, language variant, retry policy and optional rate limiting.
type Client struct {
	http      *http.Client
	timeout   time.Duration
	apiURL    string
	restURL   string
	variant   string
	userAgent string
	delays    []time.Duration
	limiter   wikitxt.DomainLimiter
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithAPIURL sets the Action API endpoint.
func WithAPIURL(u string) Option {
	return func(c *Client) {
		c.apiURL = u
	}
}

// WithRESTURL sets the REST page/html endpoint prefix.
func WithRESTURL(u string) Option {
	return func(c *Client) {
		c.restURL = strings.TrimSuffix(u, "/")
	}
}

// WithVariant sets the language variant requested from the wiki.
func WithVariant(v string) Option {
	return func(c *Client) {
		c.variant = v
	}
}

// WithUserAgent sets the User-Agent header. Wikimedia asks bots to include
// contact information.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithRetryDelays sets the backoff delays between attempts.
// An empty slice disables retries.
func WithRetryDelays(delays []time.Duration) Option {
	return func(c *Client) {
		c.delays = delays
	}
}

// WithLimiter paces requests per host.
func WithLimiter(l wikitxt.DomainLimiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewClient creates a new Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		timeout:   DefaultFetchTimeout,
		apiURL:    DefaultAPIURL,
		restURL:   DefaultRESTURL,
		variant:   DefaultVariant,
		userAgent: DefaultUserAgent,
		delays:    DefaultRetryDelays(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = &http.Client{
		Timeout: c.timeout,
	}

	return c
}

// Site returns the scheme and host of the Action API endpoint.
func (c *Client) Site() string {
	u, err := url.Parse(c.apiURL)
	if err != nil {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// get performs a GET request with retries and returns the response body.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	return withRetry(ctx, c.delays, func(ctx context.Context) ([]byte, error) {
		return c.getOnce(ctx, rawURL)
	})
}

func (c *Client) getOnce(ctx context.Context, rawURL string) ([]byte, error) {
	if c.limiter != nil {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, permanent(wikitxt.Errorf(wikitxt.EINVALID, "invalid URL %q: %v", rawURL, err))
		}
		if err := c.limiter.Wait(ctx, u.Host); err != nil {
			return nil, permanent(err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, permanent(err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", c.variant)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, permanent(wikitxt.Errorf(wikitxt.ENOTFOUND, "HTTP 404 for %s", rawURL))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// apiURLWith returns the Action API URL with the given query parameters.
func (c *Client) apiURLWith(params url.Values) string {
	params.Set("format", "json")
	return c.apiURL + "?" + params.Encode()
}
