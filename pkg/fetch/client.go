// Package fetch downloads pages and stylesheets over HTTP with retries and a
// shared in-memory cache.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// DefaultUserAgent is sent when Options.UserAgent is empty. Some sites refuse
// requests without a browser-like agent.
const DefaultUserAgent = "Mozilla/5.0 (compatible; breakdance-extractor/1.0; +https://breakdance.com)"

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	defaultCacheSize  = 256
	defaultMaxBody    = 32 << 20
)

var (
	// ErrUnsupportedScheme is returned for URLs that are not http or https.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
	// ErrBodyTooLarge is returned when a response exceeds the body limit.
	ErrBodyTooLarge = errors.New("response body too large")
)

// Getter retrieves the body of a URL.
type Getter interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Response is a successful download.
type Response struct {
	URL         string // final URL after redirects
	ContentType string
	Body        []byte
}

// Options configures a Client. Zero values select the defaults.
type Options struct {
	UserAgent  string
	Timeout    time.Duration // per attempt
	MaxRetries int
	CacheSize  int
	Backoff    time.Duration // multiplied by the attempt number
	MaxBody    int64         // bytes; 0 = 32 MiB
	Logger     *zap.Logger
	HTTPClient *http.Client
}

// Client is an HTTP client with retry logic for transient failures and an LRU
// cache of successful responses. It is safe for concurrent use, so one Client
// is shared by every input of a batch run.
type Client struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
	maxBody    int64
	cache      *lru.Cache[string, *Response]
	log        *zap.Logger
}

// NewClient creates a Client. The transport keeps a small idle connection
// pool since most requests of a run go to the same host.
func NewClient(opts Options) *Client {
	c := &Client{
		httpClient: opts.HTTPClient,
		userAgent:  opts.UserAgent,
		timeout:    opts.Timeout,
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
		maxBody:    opts.MaxBody,
		log:        opts.Logger,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.maxRetries <= 0 {
		c.maxRetries = defaultMaxRetries
	}
	if c.backoff <= 0 {
		c.backoff = 2 * time.Second
	}
	if c.maxBody <= 0 {
		c.maxBody = defaultMaxBody
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	c.log = c.log.Named("fetch")

	size := opts.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	// lru.New only fails for a non-positive size.
	c.cache, _ = lru.New[string, *Response](size)

	return c
}

// IsRemote reports whether input names an http or https URL rather than a
// local path.
func IsRemote(input string) bool {
	u, err := url.Parse(input)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

// Get returns the body of rawURL. See Do.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.Do(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Do downloads rawURL. Transport errors, 429 and 5xx responses are retried up
// to MaxRetries attempts with a linearly growing delay. Successful responses
// are cached by URL.
func (c *Client) Do(ctx context.Context, rawURL string) (*Response, error) {
	if !IsRemote(rawURL) {
		return nil, fmt.Errorf("fetch %q: %w", rawURL, ErrUnsupportedScheme)
	}

	if resp, ok := c.cache.Get(rawURL); ok {
		c.log.Debug("cache hit", zap.String("url", rawURL))
		return resp, nil
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		resp, retry, err := c.attempt(ctx, rawURL)
		if err == nil {
			c.cache.Add(rawURL, resp)
			return resp, nil
		}

		lastErr = fmt.Errorf("fetch %s: attempt %d: %w", rawURL, attempt, err)
		if !retry || attempt == c.maxRetries {
			break
		}

		c.log.Debug("retrying", zap.String("url", rawURL), zap.Int("attempt", attempt), zap.Error(err))
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("fetch %s: %w", rawURL, ctx.Err())
		case <-time.After(time.Duration(attempt) * c.backoff):
		}
	}

	return nil, lastErr
}

// attempt performs a single request. The bool result reports whether the
// failure is worth retrying.
func (c *Client) attempt(ctx context.Context, rawURL string) (*Response, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,text/css,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// A cancelled parent context is final.
		return nil, ctx.Err() == nil || errors.Is(ctx.Err(), context.DeadlineExceeded), fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retry, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, false, fmt.Errorf("%s exceeds %d bytes: %w", rawURL, c.maxBody, ErrBodyTooLarge)
	}

	return &Response{
		URL:         resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, false, nil
}
