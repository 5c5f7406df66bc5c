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

func TestNominatimGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "evaczone-cli/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "123 Main St, Altadena, CA", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{
			"lat": "34.1897",
			"lon": "-118.1312",
			"display_name": "123, Main Street, Altadena, Los Angeles County, California, USA"
		}]`)
	}))
	defer srv.Close()

	g := &geocoder{
		provider:   ProviderNominatim,
		httpClient: newStubClient(srv.URL),
		userAgent:  "evaczone-cli/1.0",
		limiter:    newTestLimiter(),
	}

	result, err := g.Geocode(context.Background(), "123 Main St, Altadena, CA")
	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.InDelta(t, 34.1897, result.Latitude, 0.0001)
	assert.InDelta(t, -118.1312, result.Longitude, 0.0001)
	assert.Equal(t, "nominatim", result.Source)
}

func TestNominatimGeocode_NoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	g := &geocoder{
		provider:   ProviderNominatim,
		httpClient: newStubClient(srv.URL),
		limiter:    newTestLimiter(),
	}

	result, err := g.Geocode(context.Background(), "Nowhere, XX")
	require.NoError(t, err)
	assert.False(t, result.Matched)
}

func TestNominatimGeocode_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := &geocoder{
		provider:   ProviderNominatim,
		httpClient: newStubClient(srv.URL),
		limiter:    newTestLimiter(),
	}

	_, err := g.Geocode(context.Background(), "123 Main St")
	assert.Error(t, err)
}

func TestNominatimGeocode_BadCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"lat": "not-a-number", "lon": "-118.0"}]`)
	}))
	defer srv.Close()

	g := &geocoder{
		provider:   ProviderNominatim,
		httpClient: newStubClient(srv.URL),
		limiter:    newTestLimiter(),
	}

	_, err := g.Geocode(context.Background(), "123 Main St")
	assert.Error(t, err)
}
