package geocode

import (
	"net/http"
	"net/url"

	"golang.org/x/time/rate"
)

// newTestLimiter creates a rate limiter that effectively does not limit for tests.
func newTestLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

// newStubClient creates an HTTP client that routes every request to the test
// server, keeping the original path and query so handlers can assert on them.
func newStubClient(testServerURL string) *http.Client {
	return &http.Client{Transport: stubTransport{server: testServerURL}}
}

type stubTransport struct {
	server string
}

func (t stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	target, err := url.Parse(t.server)
	if err != nil {
		return nil, err
	}
	clone := req.Clone(req.Context())
	clone.URL.Scheme = target.Scheme
	clone.URL.Host = target.Host
	clone.Host = target.Host
	return http.DefaultTransport.RoundTrip(clone)
}
