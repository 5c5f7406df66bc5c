package zone

import (
	"math"

	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/sells-group/evaczone-cli/internal/geo"
	"github.com/sells-group/evaczone-cli/internal/geometry"
)

// Skip records a zone excluded from a query because its geometry was
// unusable. Skips are surfaced on the Classification rather than swallowed
// so callers and tests can inspect them.
type Skip struct {
	ZoneID string
	Reason string
}

// Classification is the result of placing one coordinate against a
// repository. Exactly one of two shapes applies: Matches is non-empty and
// the distance fields are unset, or Matches is empty and the nearest-zone
// fields describe the closest boundaries (nil when no zone was usable).
type Classification struct {
	// Matches holds every zone containing the point, in repository order.
	// The first entry is authoritative for status display.
	Matches []Record

	// Skipped lists zones excluded for malformed geometry.
	Skipped []Skip

	// Nearest is the closest non-containing zone over all statuses.
	Nearest        *Record
	NearestMiles   float64
	NearestWarning *Record
	// NearestWarningMiles is the distance to the closest zone whose status
	// is exactly StatusWarning.
	NearestWarningMiles float64
}

// Contained reports whether the point was inside at least one zone.
func (c Classification) Contained() bool { return len(c.Matches) > 0 }

// Authoritative returns the first containing zone, or nil.
func (c Classification) Authoritative() *Record {
	if len(c.Matches) == 0 {
		return nil
	}
	return &c.Matches[0]
}

// Classify places a coordinate against every zone in the repository.
//
// Containment is checked against all zones without early exit, so
// overlapping zones are all recorded. When no zone contains the point, the
// nearest boundary of every usable zone is measured by great-circle
// distance to its nearest boundary point; ties keep the first-seen zone
// (strictly-less-than comparison in repository order).
func Classify(c geometry.Coordinate, repo *Repository) Classification {
	var out Classification

	usable := make([]int, 0, repo.Len())

	records := repo.Records()
	for i := range records {
		rec := &records[i]
		polys := usablePolygons(rec)
		if len(polys) == 0 {
			out.Skipped = append(out.Skipped, Skip{ZoneID: rec.ID, Reason: skipReason(rec)})
			continue
		}
		usable = append(usable, i)

		for _, p := range polys {
			if geometry.Contains(p, c) {
				out.Matches = append(out.Matches, *rec)
				break
			}
		}
	}

	if len(out.Matches) > 0 {
		return out
	}

	nearestMiles := math.Inf(1)
	warningMiles := math.Inf(1)

	for _, i := range usable {
		rec := &records[i]
		d := nearestBoundaryMiles(rec, c)

		if d < nearestMiles {
			nearestMiles = d
			out.Nearest = rec
			out.NearestMiles = d
		}
		if rec.Status == StatusWarning && d < warningMiles {
			warningMiles = d
			out.NearestWarning = rec
			out.NearestWarningMiles = d
		}
	}

	return out
}

// nearestBoundaryMiles returns the great-circle distance from c to the
// closest exterior-boundary point across the record's polygon parts.
func nearestBoundaryMiles(rec *Record, c geometry.Coordinate) float64 {
	best := math.Inf(1)
	for _, p := range rec.Polygons {
		if geometry.Validate(p) != nil {
			continue
		}
		np := geometry.NearestBoundaryPoint(p, c)
		d := geo.GreatCircleMiles(c.Lat, c.Lon, np.Lat, np.Lon)
		if d < best {
			best = d
		}
	}
	return best
}

// usablePolygons returns the record's polygon parts that pass validation.
// Invalid parts are logged and dropped; a record with no valid part is
// skipped entirely.
func usablePolygons(rec *Record) []*geom.Polygon {
	out := make([]*geom.Polygon, 0, len(rec.Polygons))
	for _, p := range rec.Polygons {
		if err := geometry.Validate(p); err != nil {
			zap.L().Debug("zone: dropping malformed polygon part",
				zap.String("zone_id", rec.ID),
				zap.Error(err),
			)
			continue
		}
		out = append(out, p)
	}
	return out
}

// skipReason describes why a record's geometry was unusable.
func skipReason(rec *Record) string {
	if len(rec.Polygons) == 0 {
		return "no decodable geometry"
	}
	for _, p := range rec.Polygons {
		if err := geometry.Validate(p); err != nil {
			return err.Error()
		}
	}
	return "no usable polygon parts"
}
