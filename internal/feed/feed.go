// Package feed fetches and decodes the evacuation zone snapshot document.
package feed

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/evaczone-cli/internal/resilience"
	"github.com/sells-group/evaczone-cli/internal/zone"
)

// ErrUnavailable indicates the feed could not be fetched or parsed. It is
// fatal for the whole batch; no partial feed is ever returned.
var ErrUnavailable = eris.New("feed: unavailable")

// Fetcher supplies a zone repository snapshot on demand. The batch
// orchestrator receives this capability explicitly so tests can substitute
// a fake feed.
type Fetcher interface {
	Fetch(ctx context.Context) (*zone.Repository, error)
}

// Client fetches the snapshot over HTTP with a single GET per batch.
type Client struct {
	httpClient *http.Client
	url        string
	userAgent  string
	retry      resilience.RetryConfig
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserAgent sets the User-Agent header on feed requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithMaxRetries sets the total attempt count for transient fetch failures.
func WithMaxRetries(attempts int) Option {
	return func(c *Client) { c.retry.MaxAttempts = attempts }
}

// NewClient creates a feed client for the given snapshot URL.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		url:        url,
		userAgent:  "evaczone-cli/1.0",
		retry: resilience.RetryConfig{
			MaxAttempts: 2,
			OnRetry: func(attempt int, err error) {
				zap.L().Warn("feed: retrying fetch", zap.Int("attempt", attempt), zap.Error(err))
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch implements Fetcher. A non-2xx response or an unparsable document
// fails the whole batch with ErrUnavailable.
func (c *Client) Fetch(ctx context.Context) (*zone.Repository, error) {
	body, err := resilience.DoVal(ctx, c.retry, c.get)
	if err != nil {
		return nil, eris.Wrapf(ErrUnavailable, "fetch %s: %v", c.url, err)
	}

	records, err := decodeRecords(body)
	if err != nil {
		return nil, eris.Wrapf(ErrUnavailable, "decode feed: %v", err)
	}

	zap.L().Info("feed snapshot loaded",
		zap.String("url", c.url),
		zap.Int("zones", len(records)),
	)
	return zone.NewRepository(records), nil
}

// get performs one GET of the snapshot document.
func (c *Client) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "feed: build request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "feed: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := eris.Errorf("feed: status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(statusErr, resp.StatusCode)
		}
		return nil, statusErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "feed: read body")
	}
	return body, nil
}
