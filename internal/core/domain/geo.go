package domain

import (
	"encoding/json"
	"fmt"
)

// GeometryType enumerates the GeoJSON geometry kinds the unified schema
// carries.
type GeometryType string

const (
	GeometryPoint        GeometryType = "Point"
	GeometryPolygon      GeometryType = "Polygon"
	GeometryMultiPolygon GeometryType = "MultiPolygon"
)

// GeometryFormat selects the wire representation of a boundary geometry.
type GeometryFormat string

const (
	FormatGeoJSON     GeometryFormat = "geojson"
	FormatWKT         GeometryFormat = "wkt"
	FormatCoordinates GeometryFormat = "coordinates"
)

// Geometry is a closed GeoJSON union. Exactly one coordinate field is
// populated, matching Type. Ordinates are [lon, lat] and polygon rings are
// closed (first == last) after normalization.
type Geometry struct {
	Type         GeometryType
	Point        []float64
	Polygon      [][][]float64
	MultiPolygon [][][][]float64
}

type geometryJSON struct {
	Type        GeometryType    `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// MarshalJSON emits standard GeoJSON ({"type": ..., "coordinates": ...}).
func (g Geometry) MarshalJSON() ([]byte, error) {
	var coords any
	switch g.Type {
	case GeometryPoint:
		coords = g.Point
	case GeometryPolygon:
		coords = g.Polygon
	case GeometryMultiPolygon:
		coords = g.MultiPolygon
	default:
		return nil, fmt.Errorf("marshal geometry: %w: %q", ErrUnsupportedGeometry, g.Type)
	}
	raw, err := json.Marshal(coords)
	if err != nil {
		return nil, err
	}
	return json.Marshal(geometryJSON{Type: g.Type, Coordinates: raw})
}

// UnmarshalJSON parses standard GeoJSON into the typed union.
func (g *Geometry) UnmarshalJSON(data []byte) error {
	var gj geometryJSON
	if err := json.Unmarshal(data, &gj); err != nil {
		return err
	}
	*g = Geometry{Type: gj.Type}
	switch gj.Type {
	case GeometryPoint:
		return json.Unmarshal(gj.Coordinates, &g.Point)
	case GeometryPolygon:
		return json.Unmarshal(gj.Coordinates, &g.Polygon)
	case GeometryMultiPolygon:
		return json.Unmarshal(gj.Coordinates, &g.MultiPolygon)
	default:
		return fmt.Errorf("unmarshal geometry: %w: %q", ErrUnsupportedGeometry, gj.Type)
	}
}
