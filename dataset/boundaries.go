package dataset

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/aldo-g/earliest-elephant/typedef"
)

// DecodeBoundaries parses either a TopoJSON Topology (using the named object) or a GeoJSON
// FeatureCollection into boundary entities, in document order.
func DecodeBoundaries(data []byte, object string) ([]typedef.BoundaryEntity, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode boundaries: %w", err)
	}

	switch head.Type {
	case "Topology":
		return decodeTopology(data, object)
	case "FeatureCollection":
		return decodeFeatureCollection(data)
	default:
		return nil, fmt.Errorf("decode boundaries: unsupported document type %q", head.Type)
	}
}

func decodeFeatureCollection(data []byte) ([]typedef.BoundaryEntity, error) {
	fc := geojson.NewFeatureCollection()
	if err := json.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("parsing geojson: %w", err)
	}

	entities := make([]typedef.BoundaryEntity, 0, len(fc.Features))
	for _, f := range fc.Features {
		name, _ := f.Properties["name"].(string)
		entities = append(entities, typedef.BoundaryEntity{
			ID:       geojsonID(f.ID),
			Name:     name,
			Geometry: toMultiPolygon(f.Geometry),
		})
	}
	return entities, nil
}

func geojsonID(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func toMultiPolygon(g orb.Geometry) orb.MultiPolygon {
	switch v := g.(type) {
	case orb.MultiPolygon:
		return v
	case orb.Polygon:
		return orb.MultiPolygon{v}
	case orb.Collection:
		var mp orb.MultiPolygon
		for _, child := range v {
			mp = append(mp, toMultiPolygon(child)...)
		}
		return mp
	default:
		return orb.MultiPolygon{}
	}
}
