// Package geocode resolves free-text addresses to coordinates via Nominatim
// (anonymous) or the Google Geocoding API (key-authenticated).
package geocode

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Provider names accepted by NewClient.
const (
	ProviderNominatim = "nominatim"
	ProviderGoogle    = "google"
)

// ErrMissingAPIKey indicates a key-authenticated provider was selected
// without a credential. Raised at construction, before any geocoding.
var ErrMissingAPIKey = eris.New("geocode: api key not configured")

// Client geocodes free-text addresses.
type Client interface {
	// Geocode resolves one address. A provider miss is not an error: the
	// returned Result has Matched=false. Errors indicate transport, auth,
	// or quota failures.
	Geocode(ctx context.Context, address string) (*Result, error)
}

// Result holds the geocoding output for an address.
type Result struct {
	Latitude    float64
	Longitude   float64
	DisplayName string
	Source      string // "nominatim" or "google"
	Matched     bool
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) { g.httpClient = hc }
}

// WithUserAgent sets the User-Agent header. Nominatim's usage policy
// requires an identifying agent.
func WithUserAgent(ua string) Option {
	return func(g *geocoder) { g.userAgent = ua }
}

// WithRateLimit sets the requests-per-second limit on provider calls.
func WithRateLimit(rps float64) Option {
	return func(g *geocoder) { g.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// WithGoogleAPIKey supplies the credential for the google provider.
func WithGoogleAPIKey(key string) Option {
	return func(g *geocoder) { g.googleKey = key }
}

// WithCache attaches a local result cache.
func WithCache(c *Cache) Option {
	return func(g *geocoder) { g.cache = c }
}

type geocoder struct {
	provider   string
	httpClient *http.Client
	userAgent  string
	googleKey  string
	limiter    *rate.Limiter
	cache      *Cache
}

// NewClient creates a geocoding Client for the named provider. The google
// provider fails fast with ErrMissingAPIKey when no key is supplied.
func NewClient(provider string, opts ...Option) (Client, error) {
	g := &geocoder{
		provider:   provider,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  "evaczone-cli/1.0",
		limiter:    rate.NewLimiter(1, 1), // Nominatim policy: max 1 req/s
	}
	for _, opt := range opts {
		opt(g)
	}

	switch provider {
	case ProviderNominatim:
	case ProviderGoogle:
		if g.googleKey == "" {
			return nil, ErrMissingAPIKey
		}
	default:
		return nil, eris.Errorf("geocode: unknown provider %q", provider)
	}

	return g, nil
}

// Geocode resolves one address through the configured provider, consulting
// the cache first when one is attached.
func (g *geocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	if g.cache != nil {
		if cached, err := g.cache.Get(ctx, address); err == nil && cached != nil {
			return cached, nil
		}
	}

	var result *Result
	var err error
	switch g.provider {
	case ProviderGoogle:
		result, err = g.geocodeGoogle(ctx, address)
	default:
		result, err = g.geocodeNominatim(ctx, address)
	}
	if err != nil {
		return nil, err
	}

	if g.cache != nil {
		if cacheErr := g.cache.Put(ctx, address, result); cacheErr != nil {
			zap.L().Debug("geocode: cache store failed", zap.Error(cacheErr))
		}
	}
	return result, nil
}
