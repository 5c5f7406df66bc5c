// Package batch drives geocoding and zone classification across a bounded
// list of addresses, degrading gracefully per address.
package batch

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/evaczone-cli/internal/feed"
	"github.com/sells-group/evaczone-cli/internal/geometry"
	"github.com/sells-group/evaczone-cli/internal/zone"
	"github.com/sells-group/evaczone-cli/pkg/geocode"
)

// ErrNoAddresses indicates the raw input contained no addresses at all.
// Rejected before any external call is made.
var ErrNoAddresses = eris.New("batch: no addresses provided")

// DefaultMaxAddresses caps one batch; addresses beyond it are dropped.
const DefaultMaxAddresses = 10

// Status is the Yes/No/N-A value of the order and warning columns.
type Status string

// Column values.
const (
	StatusYes          Status = "Yes"
	StatusNo           Status = "No"
	StatusNotAvailable Status = "N/A"
)

// ZoneInfo carries the zone attributes surfaced when an address is
// contained in a zone.
type ZoneInfo struct {
	ID            string  `json:"id"`
	Status        string  `json:"status"`
	StatusReason  string  `json:"status_reason,omitempty"`
	NorthOf       string  `json:"north_of,omitempty"`
	EastOf        string  `json:"east_of,omitempty"`
	SouthOf       string  `json:"south_of,omitempty"`
	WestOf        string  `json:"west_of,omitempty"`
	Acreage       float64 `json:"acreage"`
	EstPopulation int64   `json:"est_population"`
	LastUpdated   string  `json:"last_updated,omitempty"`
}

// Result is one row per input address, in input order. Exactly one of three
// shapes holds: Zone is set (contained), the distance fields are set
// (outside all zones with at least one usable zone), or both statuses are
// N/A (geocoding failed).
type Result struct {
	Address       string
	OrderStatus   Status
	WarningStatus Status

	// NearestMiles is the distance to the closest zone boundary over all
	// statuses; NearestWarningMiles is restricted to warning zones. Nil
	// means not applicable.
	NearestMiles        *float64
	NearestWarningMiles *float64

	Zone *ZoneInfo

	// Skipped lists zones excluded from this lookup for malformed geometry.
	Skipped []zone.Skip
}

// Orchestrator runs one batch against one feed snapshot. Its collaborators
// are injected so tests can substitute fakes.
type Orchestrator struct {
	geocoder     geocode.Client
	fetcher      feed.Fetcher
	maxAddresses int
	concurrency  int
}

// Option configures the Orchestrator.
type Option func(*Orchestrator)

// WithMaxAddresses overrides the batch size cap.
func WithMaxAddresses(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxAddresses = n
		}
	}
}

// WithConcurrency sets the number of addresses geocoded in parallel.
// The default of 1 preserves the sequential reference behavior; higher
// values still keep results in input order.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// NewOrchestrator creates an Orchestrator with the given capabilities.
func NewOrchestrator(gc geocode.Client, f feed.Fetcher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		geocoder:     gc,
		fetcher:      f,
		maxAddresses: DefaultMaxAddresses,
		concurrency:  1,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SplitAddresses splits raw multi-line input into one address per line.
// Entirely blank input is rejected; a blank line embedded among valid
// addresses is passed through unfiltered.
func SplitAddresses(raw string) ([]string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ErrNoAddresses
	}
	lines := strings.Split(trimmed, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], "\r")
	}
	return lines, nil
}

// Run processes the addresses against a fresh feed snapshot. Feed failure
// is fatal for the whole batch; geocode failures are contained per address.
// The returned slice preserves input order and has one entry per processed
// address.
func (o *Orchestrator) Run(ctx context.Context, addresses []string) ([]Result, error) {
	if len(addresses) == 0 {
		return nil, ErrNoAddresses
	}

	if len(addresses) > o.maxAddresses {
		zap.L().Warn("batch: dropping addresses beyond cap",
			zap.Int("cap", o.maxAddresses),
			zap.Int("dropped", len(addresses)-o.maxAddresses),
		)
		addresses = addresses[:o.maxAddresses]
	}

	repo, err := o.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(addresses))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i, addr := range addresses {
		i, addr := i, addr
		g.Go(func() error {
			results[i] = o.checkAddress(gctx, addr, repo)
			return nil // individual failures never abort the batch
		})
	}
	_ = g.Wait()

	return results, nil
}

// checkAddress geocodes one address and classifies it against the snapshot.
func (o *Orchestrator) checkAddress(ctx context.Context, addr string, repo *zone.Repository) Result {
	loc, err := o.geocoder.Geocode(ctx, addr)
	if err != nil {
		zap.L().Warn("batch: geocode failed", zap.String("address", addr), zap.Error(err))
		return notAvailable(addr)
	}
	if !loc.Matched {
		zap.L().Info("batch: address not found", zap.String("address", addr))
		return notAvailable(addr)
	}

	coord := geometry.Coordinate{Lat: loc.Latitude, Lon: loc.Longitude}
	if !coord.Valid() {
		zap.L().Warn("batch: geocoder returned out-of-range coordinate",
			zap.String("address", addr),
			zap.Float64("lat", coord.Lat),
			zap.Float64("lon", coord.Lon),
		)
		return notAvailable(addr)
	}

	return mapClassification(addr, zone.Classify(coord, repo))
}

// notAvailable is the all-N/A row recorded when geocoding fails.
func notAvailable(addr string) Result {
	return Result{
		Address:       addr,
		OrderStatus:   StatusNotAvailable,
		WarningStatus: StatusNotAvailable,
	}
}

// mapClassification converts a classifier output into a result row.
func mapClassification(addr string, c zone.Classification) Result {
	r := Result{
		Address:       addr,
		OrderStatus:   StatusNo,
		WarningStatus: StatusNo,
		Skipped:       c.Skipped,
	}

	if auth := c.Authoritative(); auth != nil {
		if auth.Status == zone.StatusOrder {
			r.OrderStatus = StatusYes
		}
		if auth.Status == zone.StatusWarning {
			r.WarningStatus = StatusYes
		}
		r.Zone = &ZoneInfo{
			ID:            auth.ID,
			Status:        auth.Status,
			StatusReason:  auth.StatusReason,
			NorthOf:       auth.NorthOf,
			EastOf:        auth.EastOf,
			SouthOf:       auth.SouthOf,
			WestOf:        auth.WestOf,
			Acreage:       auth.Acreage,
			EstPopulation: auth.EstPopulation,
			LastUpdated:   formatLastUpdated(auth.LastUpdated),
		}
		return r
	}

	if c.Nearest != nil {
		d := c.NearestMiles
		r.NearestMiles = &d
	}
	if c.NearestWarning != nil {
		d := c.NearestWarningMiles
		r.NearestWarningMiles = &d
	}
	return r
}

// formatLastUpdated renders the feed's last-updated timestamp for display.
func formatLastUpdated(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
