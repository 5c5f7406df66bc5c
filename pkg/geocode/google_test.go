package geocode

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"status": "OK",
			"results": [{
				"geometry": {"location": {"lat": 34.0522, "lng": -118.2437}},
				"formatted_address": "Los Angeles, CA, USA"
			}]
		}`)
	}))
	defer srv.Close()

	g := &geocoder{
		provider:   ProviderGoogle,
		googleKey:  "test-key",
		httpClient: newStubClient(srv.URL),
		limiter:    newTestLimiter(),
	}

	result, err := g.Geocode(context.Background(), "Los Angeles, CA")
	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.InDelta(t, 34.0522, result.Latitude, 0.0001)
	assert.InDelta(t, -118.2437, result.Longitude, 0.0001)
	assert.Equal(t, "google", result.Source)
	assert.Equal(t, "Los Angeles, CA, USA", result.DisplayName)
}

func TestGoogleGeocode_ZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status": "ZERO_RESULTS", "results": []}`)
	}))
	defer srv.Close()

	g := &geocoder{
		provider:   ProviderGoogle,
		googleKey:  "test-key",
		httpClient: newStubClient(srv.URL),
		limiter:    newTestLimiter(),
	}

	result, err := g.Geocode(context.Background(), "Nowhere, XX")
	require.NoError(t, err)
	assert.False(t, result.Matched)
}

func TestGoogleGeocode_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status": "OVER_QUERY_LIMIT", "results": []}`)
	}))
	defer srv.Close()

	g := &geocoder{
		provider:   ProviderGoogle,
		googleKey:  "test-key",
		httpClient: newStubClient(srv.URL),
		limiter:    newTestLimiter(),
	}

	_, err := g.Geocode(context.Background(), "123 Main St")
	assert.ErrorContains(t, err, "OVER_QUERY_LIMIT")
}

func TestNewClient(t *testing.T) {
	c, err := NewClient(ProviderNominatim)
	require.NoError(t, err)
	assert.NotNil(t, c)

	_, err = NewClient(ProviderGoogle)
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	c, err = NewClient(ProviderGoogle, WithGoogleAPIKey("k"))
	require.NoError(t, err)
	assert.NotNil(t, c)

	_, err = NewClient("mapquest")
	assert.ErrorContains(t, err, "unknown provider")
}
