// Package geometry provides point and polygon primitives for zone
// containment and nearest-boundary lookups. Polygons are represented with
// twpayne/go-geom; coordinates are WGS84 lat/lon in degrees.
package geometry

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// ErrDegenerateRing indicates a ring with fewer than 3 distinct vertices.
var ErrDegenerateRing = eris.New("geometry: ring has fewer than 3 distinct vertices")

// ErrNonFiniteCoord indicates a NaN or infinite vertex coordinate.
var ErrNonFiniteCoord = eris.New("geometry: non-finite coordinate")

// ErrEmptyPolygon indicates a polygon with no rings.
var ErrEmptyPolygon = eris.New("geometry: polygon has no rings")

// Coordinate is an immutable WGS84 point in degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Valid reports whether the coordinate is finite and within WGS84 bounds.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Validate checks that a polygon is usable for containment and distance
// queries: at least one ring, every ring with at least 3 distinct vertices,
// all coordinates finite.
func Validate(p *geom.Polygon) error {
	if p == nil || p.NumLinearRings() == 0 {
		return ErrEmptyPolygon
	}
	for i := 0; i < p.NumLinearRings(); i++ {
		ring := p.LinearRing(i).FlatCoords()
		stride := p.Stride()
		for _, v := range ring {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return ErrNonFiniteCoord
			}
		}
		if distinctVertices(ring, stride) < 3 {
			return ErrDegenerateRing
		}
	}
	return nil
}

// distinctVertices counts unique vertices in a flat ring, ignoring the
// closing duplicate.
func distinctVertices(ring []float64, stride int) int {
	seen := make(map[[2]float64]struct{}, len(ring)/stride)
	for i := 0; i+1 < len(ring); i += stride {
		seen[[2]float64{ring[i], ring[i+1]}] = struct{}{}
	}
	return len(seen)
}

// Contains reports whether the point lies within the polygon's exterior
// ring and outside all of its holes. Points on a ring boundary are treated
// as inside, per go-geom's ray-crossing semantics; the same rule applies
// uniformly to every zone in a batch.
func Contains(p *geom.Polygon, c Coordinate) bool {
	if p == nil || p.NumLinearRings() == 0 {
		return false
	}
	pt := geom.Coord{c.Lon, c.Lat}
	if !xy.IsPointInRing(p.Layout(), pt, p.LinearRing(0).FlatCoords()) {
		return false
	}
	for i := 1; i < p.NumLinearRings(); i++ {
		if xy.IsPointInRing(p.Layout(), pt, p.LinearRing(i).FlatCoords()) {
			return false
		}
	}
	return true
}

// NearestBoundaryPoint returns the point on the polygon's exterior ring
// closest to c, by true segment projection in planar degree space. The
// caller is expected to reconcile the result to a great-circle distance
// before reporting it.
func NearestBoundaryPoint(p *geom.Polygon, c Coordinate) Coordinate {
	ring := p.LinearRing(0).FlatCoords()
	stride := p.Stride()

	best := Coordinate{Lat: ring[1], Lon: ring[0]}
	bestDist := math.Inf(1)

	consider := func(ax, ay, bx, by float64) {
		nx, ny := nearestOnSegment(c.Lon, c.Lat, ax, ay, bx, by)
		d := (c.Lon-nx)*(c.Lon-nx) + (c.Lat-ny)*(c.Lat-ny)
		if d < bestDist {
			bestDist = d
			best = Coordinate{Lat: ny, Lon: nx}
		}
	}

	for i := 0; i+stride+1 < len(ring); i += stride {
		consider(ring[i], ring[i+1], ring[i+stride], ring[i+stride+1])
	}

	// Rings may be implicitly closed (first vertex not repeated); the
	// closing segment still bounds the polygon.
	last := len(ring) - stride
	if ring[last] != ring[0] || ring[last+1] != ring[1] {
		consider(ring[last], ring[last+1], ring[0], ring[1])
	}

	return best
}

// nearestOnSegment projects point (px,py) onto segment (a,b), clamped to
// the segment's endpoints.
func nearestOnSegment(px, py, ax, ay, bx, by float64) (float64, float64) {
	dx := bx - ax
	dy := by - ay
	if dx == 0 && dy == 0 {
		return ax, ay
	}
	t := ((px-ax)*dx + (py-ay)*dy) / (dx*dx + dy*dy)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return ax + t*dx, ay + t*dy
}
