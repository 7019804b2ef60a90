// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Cylabeth/pokedeck/internal/cache"
)

// DefaultBaseURL is the public PokéAPI endpoint. Tests substitute an
// httptest server through Config.BaseURL.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// DefaultTimeout bounds a single request attempt. Generous for PokéAPI,
// short enough that a hung request cannot stall a whole search.
const DefaultTimeout = 8 * time.Second

// cacheKeyPrefix namespaces client entries in the shared cache.
const cacheKeyPrefix = "poke:"

// Config holds client construction parameters.
type Config struct {
	// BaseURL is the upstream root; empty means DefaultBaseURL.
	BaseURL string
	// UserAgent is sent with every request.
	UserAgent string
	// Timeout is the default per-attempt timeout; 0 means DefaultTimeout.
	Timeout time.Duration
	// HTTPClient is the transport; nil means http.DefaultClient.
	HTTPClient *http.Client
}

// FetchOptions controls one FetchJSON call.
type FetchOptions struct {
	// TTL > 0 enables caching of the response bytes under the absolute
	// URL. TTL <= 0 bypasses the cache entirely.
	TTL time.Duration
	// Timeout bounds each attempt; 0 means DefaultTimeout.
	Timeout time.Duration
	// NoRetry disables the single immediate retry. The default policy
	// retries any failure (transport, timeout, non-2xx, parse) once.
	NoRetry bool
}

// Client fetches and decodes PokéAPI JSON with a TTL cache in front and
// a timeout-plus-single-retry resilience policy. No backoff, no jitter:
// one immediate retry is the whole policy, which suits a low-volume BFF.
type Client struct {
	baseURL    string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
	cache      cache.Store[string, []byte]
	logger     zerolog.Logger
}

// NewClient creates a Client. store may be nil to disable caching
// regardless of per-call TTLs.
func NewClient(cfg Config, store cache.Store[string, []byte], logger zerolog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  cfg.UserAgent,
		timeout:    timeout,
		httpClient: httpClient,
		cache:      store,
		logger:     logger.With().Str("component", "pokeapi").Logger(),
	}
}

// resolveURL accepts a path ("/pokemon/ditto") or an absolute URL (as
// returned inside upstream payloads, e.g. evolution_chain.url).
func (c *Client) resolveURL(pathOrURL string) string {
	if strings.HasPrefix(pathOrURL, "http") {
		return pathOrURL
	}
	return c.baseURL + pathOrURL
}

// FetchJSON fetches pathOrURL and decodes the JSON body into out.
//
// With opts.TTL > 0 the raw response bytes are served from and written
// to the cache, keyed by the absolute URL; each hit re-decodes into the
// caller's type. Any failure — transport error, timeout, non-2xx status,
// or a body that does not decode — is retried exactly once unless
// opts.NoRetry is set; a second failure is terminal.
func (c *Client) FetchJSON(ctx context.Context, pathOrURL string, opts FetchOptions, out any) error {
	url := c.resolveURL(pathOrURL)
	key := cacheKeyPrefix + url

	if opts.TTL > 0 && c.cache != nil {
		if body, ok := c.cache.Get(key); ok {
			c.logger.Debug().Str("url", url).Msg("cache hit")
			return json.Unmarshal(body, out)
		}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}

	body, err := c.fetchOnce(ctx, url, timeout, out)
	if err != nil && !opts.NoRetry {
		c.logger.Debug().Str("url", url).Err(err).Msg("retrying after failure")
		body, err = c.fetchOnce(ctx, url, timeout, out)
	}
	if err != nil {
		return err
	}

	if opts.TTL > 0 && c.cache != nil {
		c.cache.Set(key, body, opts.TTL)
	}
	return nil
}

// fetchOnce performs a single attempt: request, status check, body read,
// decode. Returns the raw body so the caller can cache bytes that are
// known to decode into out.
func (c *Client) fetchOnce(ctx context.Context, url string, timeout time.Duration, out any) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", url, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pokeapi request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, bodySnippetLimit))
		return nil, &StatusError{
			URL:  url,
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(snippet)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}
	return body, nil
}
