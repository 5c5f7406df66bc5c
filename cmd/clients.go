package main

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/evaczone-cli/internal/config"
	"github.com/sells-group/evaczone-cli/internal/feed"
	"github.com/sells-group/evaczone-cli/pkg/geocode"
)

// buildGeocoder constructs the geocoding client from config. Returns
// geocode.ErrMissingAPIKey before any geocoding when the google provider
// has no key.
func buildGeocoder(cfg *config.Config) (geocode.Client, error) {
	opts := []geocode.Option{
		geocode.WithUserAgent(cfg.Geocode.UserAgent),
		geocode.WithRateLimit(cfg.Geocode.RateLimitRPS),
	}
	if cfg.Geocode.GoogleKey != "" {
		opts = append(opts, geocode.WithGoogleAPIKey(cfg.Geocode.GoogleKey))
	}

	if cfg.Geocode.CachePath != "" {
		cache, err := geocode.OpenCache(cfg.Geocode.CachePath, cfg.Geocode.CacheTTLDays)
		if err != nil {
			// A broken cache is not worth failing the batch over.
			zap.L().Warn("geocode cache unavailable, continuing without it", zap.Error(err))
		} else {
			opts = append(opts, geocode.WithCache(cache))
		}
	}

	return geocode.NewClient(cfg.Geocode.Provider, opts...)
}

// buildFeedClient constructs the zone feed client from config.
func buildFeedClient(cfg *config.Config) *feed.Client {
	return feed.NewClient(cfg.Feed.URL,
		feed.WithUserAgent(cfg.Geocode.UserAgent),
		feed.WithMaxRetries(cfg.Feed.MaxRetries),
		feed.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Feed.TimeoutSecs) * time.Second,
		}),
	)
}
