package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/evaczone-cli/internal/zone"
)

// document is the snapshot's top-level GeoJSON shape.
type document struct {
	Features []feature `json:"features"`
}

type feature struct {
	Geometry   json.RawMessage `json:"geometry"`
	Properties properties      `json:"properties"`
}

type properties struct {
	ZoneID           string  `json:"zone_id"`
	ZoneStatus       string  `json:"zone_status"`
	ZoneStatusReason string  `json:"zone_status_reason"`
	NorthOf          string  `json:"north_of"`
	EastOf           string  `json:"east_of"`
	SouthOf          string  `json:"south_of"`
	WestOf           string  `json:"west_of"`
	Acreage          float64 `json:"acreage"`
	EstPopulation    int64   `json:"est_population"`
	LastUpdated      int64   `json:"last_updated"` // epoch milliseconds
}

// decodeRecords parses the snapshot document into zone records in feature
// order. A document that fails to parse is a hard error; a single feature
// with undecodable geometry yields a record with no polygons, which the
// classifier reports as skipped.
func decodeRecords(data []byte) ([]zone.Record, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "feed: parse document")
	}

	records := make([]zone.Record, 0, len(doc.Features))
	for _, f := range doc.Features {
		p := f.Properties
		rec := zone.Record{
			ID:            p.ZoneID,
			Status:        p.ZoneStatus,
			StatusReason:  p.ZoneStatusReason,
			NorthOf:       p.NorthOf,
			EastOf:        p.EastOf,
			SouthOf:       p.SouthOf,
			WestOf:        p.WestOf,
			Acreage:       p.Acreage,
			EstPopulation: p.EstPopulation,
			Polygons:      decodeGeometry(f.Geometry, p.ZoneID),
		}
		if p.LastUpdated > 0 {
			rec.LastUpdated = time.UnixMilli(p.LastUpdated)
		}
		records = append(records, rec)
	}
	return records, nil
}

// decodeGeometry converts a GeoJSON Polygon or MultiPolygon into polygon
// parts. Anything else (missing, null, or unsupported geometry) logs a
// warning and returns nil.
func decodeGeometry(raw json.RawMessage, zoneID string) []*geom.Polygon {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}

	var g geom.T
	if err := geojson.Unmarshal(raw, &g); err != nil {
		zap.L().Warn("feed: undecodable zone geometry",
			zap.String("zone_id", zoneID),
			zap.Error(err),
		)
		return nil
	}

	switch t := g.(type) {
	case *geom.Polygon:
		return []*geom.Polygon{t}
	case *geom.MultiPolygon:
		out := make([]*geom.Polygon, 0, t.NumPolygons())
		for i := 0; i < t.NumPolygons(); i++ {
			out = append(out, t.Polygon(i))
		}
		return out
	default:
		zap.L().Warn("feed: unsupported geometry type",
			zap.String("zone_id", zoneID),
			zap.String("type", fmt.Sprintf("%T", g)),
		)
		return nil
	}
}
