// Package geospatial holds the pure geometry and unit conversion pipeline:
// provider-native polygon formats to and from GeoJSON, WKT and coordinate-list
// rendering, bounding boxes, polygon simplification, and area unit conversion.
// Nothing in this package performs I/O.
package geospatial

import (
	"fmt"
	"strings"

	"github.com/acreblitz/fieldgate/internal/core/domain"
)

// LatLon is a provider-native coordinate. Providers hand rings over as
// lat/lon point lists; GeoJSON wants [lon, lat].
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// FromNativePolygons converts provider polygons (each a list of rings, each
// ring a list of lat/lon points) into GeoJSON. Open rings are closed by
// appending a duplicate of the first point. One polygon yields a Polygon,
// more than one a MultiPolygon; this auto-detection is part of the contract
// and round-trips through NativeFromGeoJSON.
func FromNativePolygons(polygons [][][]LatLon) *domain.Geometry {
	if len(polygons) == 0 {
		return nil
	}

	converted := make([][][][]float64, 0, len(polygons))
	for _, rings := range polygons {
		poly := make([][][]float64, 0, len(rings))
		for _, ring := range rings {
			coords := make([][]float64, 0, len(ring)+1)
			for _, pt := range ring {
				coords = append(coords, []float64{pt.Lon, pt.Lat})
			}
			coords = closeRing(coords)
			poly = append(poly, coords)
		}
		converted = append(converted, poly)
	}

	if len(polygons) == 1 {
		return &domain.Geometry{Type: domain.GeometryPolygon, Polygon: converted[0]}
	}
	return &domain.Geometry{Type: domain.GeometryMultiPolygon, MultiPolygon: converted}
}

// NativeFromGeoJSON converts a Polygon or MultiPolygon back into the
// provider-native polygons-of-rings-of-points form. Point geometries have no
// native polygon form and yield nil.
func NativeFromGeoJSON(g *domain.Geometry) [][][]LatLon {
	if g == nil {
		return nil
	}
	switch g.Type {
	case domain.GeometryPolygon:
		return [][][]LatLon{ringsToNative(g.Polygon)}
	case domain.GeometryMultiPolygon:
		out := make([][][]LatLon, 0, len(g.MultiPolygon))
		for _, poly := range g.MultiPolygon {
			out = append(out, ringsToNative(poly))
		}
		return out
	default:
		return nil
	}
}

func ringsToNative(rings [][][]float64) [][]LatLon {
	out := make([][]LatLon, 0, len(rings))
	for _, ring := range rings {
		pts := make([]LatLon, 0, len(ring))
		for _, c := range ring {
			if len(c) < 2 {
				continue
			}
			pts = append(pts, LatLon{Lat: c[1], Lon: c[0]})
		}
		out = append(out, pts)
	}
	return out
}

// closeRing appends a duplicate of the first coordinate when the ring is not
// already closed.
func closeRing(ring [][]float64) [][]float64 {
	if len(ring) < 2 {
		return ring
	}
	first, last := ring[0], ring[len(ring)-1]
	if first[0] != last[0] || first[1] != last[1] {
		ring = append(ring, []float64{first[0], first[1]})
	}
	return ring
}

// ToWKT renders a geometry as well-known text. Geometry kinds outside the
// supported set fail with domain.ErrUnsupportedGeometry.
func ToWKT(g *domain.Geometry) (string, error) {
	if g == nil {
		return "", fmt.Errorf("to wkt: %w: nil geometry", domain.ErrUnsupportedGeometry)
	}
	switch g.Type {
	case domain.GeometryPoint:
		if len(g.Point) < 2 {
			return "", fmt.Errorf("to wkt: point needs 2 ordinates, got %d", len(g.Point))
		}
		return fmt.Sprintf("POINT(%g %g)", g.Point[0], g.Point[1]), nil
	case domain.GeometryPolygon:
		return "POLYGON(" + wktRings(g.Polygon) + ")", nil
	case domain.GeometryMultiPolygon:
		parts := make([]string, 0, len(g.MultiPolygon))
		for _, poly := range g.MultiPolygon {
			parts = append(parts, "("+wktRings(poly)+")")
		}
		return "MULTIPOLYGON(" + strings.Join(parts, ",") + ")", nil
	default:
		return "", fmt.Errorf("to wkt: %w: %q", domain.ErrUnsupportedGeometry, g.Type)
	}
}

func wktRings(rings [][][]float64) string {
	parts := make([]string, 0, len(rings))
	for _, ring := range rings {
		pts := make([]string, 0, len(ring))
		for _, c := range ring {
			if len(c) < 2 {
				continue
			}
			pts = append(pts, fmt.Sprintf("%g %g", c[0], c[1]))
		}
		parts = append(parts, "("+strings.Join(pts, ",")+")")
	}
	return strings.Join(parts, ",")
}

// FlattenCoordinates collapses every ring of a Polygon, or every polygon and
// ring of a MultiPolygon, into one ordered [lon, lat] list. Points flatten to
// a single-element list.
func FlattenCoordinates(g *domain.Geometry) [][]float64 {
	if g == nil {
		return nil
	}
	var out [][]float64
	switch g.Type {
	case domain.GeometryPoint:
		if len(g.Point) >= 2 {
			out = append(out, []float64{g.Point[0], g.Point[1]})
		}
	case domain.GeometryPolygon:
		for _, ring := range g.Polygon {
			out = append(out, ring...)
		}
	case domain.GeometryMultiPolygon:
		for _, poly := range g.MultiPolygon {
			for _, ring := range poly {
				out = append(out, ring...)
			}
		}
	}
	return out
}

// Bounds computes [minLon, minLat, maxLon, maxLat] over a flattened
// coordinate list. An empty input yields [0,0,0,0].
func Bounds(coords [][]float64) [4]float64 {
	var b [4]float64
	started := false
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		lon, lat := c[0], c[1]
		if !started {
			b = [4]float64{lon, lat, lon, lat}
			started = true
			continue
		}
		if lon < b[0] {
			b[0] = lon
		}
		if lat < b[1] {
			b[1] = lat
		}
		if lon > b[2] {
			b[2] = lon
		}
		if lat > b[3] {
			b[3] = lat
		}
	}
	return b
}

// Formatted is the result of rendering a geometry into a requested wire
// format. Exactly one payload field is populated, matching Format.
type Formatted struct {
	Format      domain.GeometryFormat
	GeoJSON     *domain.Geometry
	WKT         string
	Coordinates [][]float64
}

// ConvertFormat routes a geometry to the requested output format. Unknown
// format values fall through to GeoJSON, the canonical form.
func ConvertFormat(g *domain.Geometry, format domain.GeometryFormat) (Formatted, error) {
	switch format {
	case domain.FormatWKT:
		wkt, err := ToWKT(g)
		if err != nil {
			return Formatted{}, err
		}
		return Formatted{Format: domain.FormatWKT, WKT: wkt}, nil
	case domain.FormatCoordinates:
		return Formatted{Format: domain.FormatCoordinates, Coordinates: FlattenCoordinates(g)}, nil
	default:
		return Formatted{Format: domain.FormatGeoJSON, GeoJSON: g}, nil
	}
}
