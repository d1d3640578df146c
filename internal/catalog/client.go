// Package catalog provides a typed client for the remote music catalog
// service, covering artist resolution and paginated album/track listings.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"time"
)

const userAgent = "musicdb-seeder/1.0"

// Catalog error code for an exhausted request quota.
const errCodeQuota = 4

// Sentinel errors.
var (
	// ErrNotFound is returned when an artist search yields zero matches.
	ErrNotFound = errors.New("no matching artist")

	// ErrRateLimited is returned when the service reports an exhausted
	// quota after retries.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// statusError reports a non-2xx HTTP response.
type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.status)
}

// Config holds catalog client configuration.
type Config struct {
	BaseURL string

	// Timeout bounds every individual request attempt.
	Timeout time.Duration

	// MaxRetries is the number of additional attempts after a transient
	// failure; RetryBaseDelay is the first backoff delay, doubled per
	// attempt with jitter.
	MaxRetries     int
	RetryBaseDelay time.Duration
}

// Client is a catalog API client with retry on transient failures.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
}

// NewClient creates a catalog client from the provided configuration.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	delay := cfg.RetryBaseDelay
	if delay < 0 {
		delay = 0
	}
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: cfg.MaxRetries,
		baseDelay:  delay,
	}
}

// ResolveArtist looks an artist up by name and returns the catalog's id and
// canonical spelling. A search with zero matches fails with ErrNotFound.
func (c *Client) ResolveArtist(ctx context.Context, name string) (Artist, error) {
	reqURL := c.baseURL + "/search/artist?q=" + url.QueryEscape(name)

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return Artist{}, fmt.Errorf("searching artist %q: %w", name, err)
	}

	var p page[Artist]
	if err := json.Unmarshal(body, &p); err != nil {
		return Artist{}, fmt.Errorf("parsing artist search response: %w", err)
	}
	if len(p.Data) == 0 {
		return Artist{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return p.Data[0], nil
}

// Albums returns a lazy sequence over every album of an artist, walking all
// pages transparently. The sequence is restartable: each range starts over
// from the first page. Iteration stops at the first error, which is yielded
// as the final element.
func (c *Client) Albums(ctx context.Context, artistID int64) iter.Seq2[Album, error] {
	return walkPages[Album](ctx, c, fmt.Sprintf("%s/artist/%d/albums", c.baseURL, artistID))
}

// Tracks returns a lazy sequence over every track of an album, with the same
// pagination and error contract as Albums.
func (c *Client) Tracks(ctx context.Context, albumID int64) iter.Seq2[Track, error] {
	return walkPages[Track](ctx, c, fmt.Sprintf("%s/album/%d/tracks", c.baseURL, albumID))
}

// walkPages fetches list pages starting at first and follows the envelope's
// next link until exhausted.
func walkPages[T any](ctx context.Context, c *Client, first string) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		next := first
		for next != "" {
			body, err := c.doRequest(ctx, next)
			if err != nil {
				yield(zero, fmt.Errorf("fetching catalog page: %w", err))
				return
			}

			var p page[T]
			if err := json.Unmarshal(body, &p); err != nil {
				yield(zero, fmt.Errorf("parsing catalog page: %w", err))
				return
			}

			for _, item := range p.Data {
				if !yield(item, nil) {
					return
				}
			}
			next = p.Next
		}
	}
}

// doRequest performs an HTTP GET with retry on transient failures, backing
// off exponentially with jitter between attempts.
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		// Wait before retry (skip on first attempt)
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff(attempt)):
			}
		}

		body, err := c.doSingleRequest(ctx, reqURL)
		if err == nil {
			return body, nil
		}
		// A canceled run stops immediately even when the failure itself
		// would be retryable.
		if ctx.Err() != nil || !retryable(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("retries exhausted: %w", lastErr)
}

// backoff returns the delay before the given attempt: baseDelay doubled per
// attempt, with ±50% jitter.
func (c *Client) backoff(attempt int) time.Duration {
	d := c.baseDelay << (attempt - 1)
	if d <= 0 {
		return 0
	}
	jitter := time.Duration(rand.Int64N(int64(d))) - d/2
	return d + jitter
}

// retryable reports whether an attempt failed transiently: server errors,
// rate limiting, per-attempt timeouts, and socket-level failures. Anything
// else, like a malformed base URL, is permanent and fails the call
// immediately.
func retryable(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.status == http.StatusTooManyRequests || se.status >= 500
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		if ue.Timeout() {
			return true
		}
		var oe *net.OpError
		return errors.As(err, &oe)
	}
	return false
}

// doSingleRequest performs a single HTTP request attempt.
func (c *Client) doSingleRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{status: resp.StatusCode}
	}

	// The service reports some failures inside a 200 body.
	var e apiError
	if err := json.Unmarshal(body, &e); err == nil && e.Error != nil {
		if e.Error.Code == errCodeQuota {
			return nil, ErrRateLimited
		}
		return nil, fmt.Errorf("catalog error %d: %s", e.Error.Code, e.Error.Message)
	}

	return body, nil
}
