package docstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// Client for requests to the managed document store
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
	userAgent  string
	maxRetries int
	backoff    time.Duration
	now        func() time.Time
}

type Option func(*Client)

// WrapTransport decorates the current transport, keeping its pooling.
func WrapTransport(wrap func(http.RoundTripper) http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = wrap(c.httpClient.Transport)
	}
}

func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func WithRetries(maxRetries int, backoff time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.backoff = backoff
	}
}

// WithClock sets the clock used for defaulting missing dates.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger:     logger,
		userAgent:  "campus-rentals/1.0",
		maxRetries: 3,
		backoff:    time.Second,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// doRequest for HTTP reqs with retries
func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if params != nil {
		fullURL += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * c.backoff
			c.logger.Debug("retrying request",
				zap.String("url", fullURL),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, status, err := c.roundTrip(ctx, method, fullURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		if status >= 200 && status < 300 {
			c.logger.Debug("successful request",
				zap.String("url", fullURL),
				zap.Int("status", status),
			)
			return body, nil
		}

		c.logger.Error("document store error",
			zap.String("url", fullURL),
			zap.Int("status", status),
			zap.String("body", string(body)),
		)

		switch status {
		case http.StatusTooManyRequests:
			c.logger.Warn("rate limit hit, backing off")
			lastErr = fmt.Errorf("rate limit exceeded")
			continue
		case http.StatusBadRequest:
			return nil, fmt.Errorf("bad request: %s", string(body))
		case http.StatusNotFound:
			return nil, ErrNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, ErrForbidden
		default:
			lastErr = fmt.Errorf("unexpected status code: %d", status)
		}
	}

	return nil, fmt.Errorf("request failed after retries: %w", lastErr)
}

func (c *Client) roundTrip(ctx context.Context, method, fullURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}

	return body, resp.StatusCode, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return c.doRequest(ctx, http.MethodGet, path, params)
}

// Ping reports whether the store is reachable. Any HTTP response counts;
// only transport failures mean the network is down.
func (c *Client) Ping(ctx context.Context) error {
	_, _, err := c.roundTrip(ctx, http.MethodHead, c.baseURL+"/")
	if err != nil {
		return fmt.Errorf("ping document store: %w", err)
	}
	return nil
}
