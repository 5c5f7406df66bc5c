// Package zone holds the evacuation zone model, the per-batch repository,
// and the classifier that places a coordinate relative to the zones.
package zone

import (
	"time"

	"github.com/twpayne/go-geom"
)

// Zone status values carried by the feed.
const (
	StatusOrder   = "Evacuation Order"
	StatusWarning = "Evacuation Warning"
)

// Record is one evacuation zone decoded from the feed. Immutable after
// construction; lives for a single batch run.
type Record struct {
	ID            string
	Status        string
	StatusReason  string
	NorthOf       string
	EastOf        string
	SouthOf       string
	WestOf        string
	Acreage       float64
	EstPopulation int64
	LastUpdated   time.Time

	// Polygons holds the zone geometry, one entry per polygon part
	// (MultiPolygon feeds yield several). Empty when the feed geometry
	// could not be decoded; the classifier reports such records as skipped.
	Polygons []*geom.Polygon
}

// Repository is the ordered, read-only set of zone records for one batch.
// Insertion order is feed order and drives nearest-zone tie-breaks.
type Repository struct {
	records []Record
}

// NewRepository builds a repository preserving feed order.
func NewRepository(records []Record) *Repository {
	return &Repository{records: records}
}

// Len returns the number of zone records.
func (r *Repository) Len() int {
	if r == nil {
		return 0
	}
	return len(r.records)
}

// Records returns the zone records in feed order. Callers must not mutate.
func (r *Repository) Records() []Record {
	if r == nil {
		return nil
	}
	return r.records
}
