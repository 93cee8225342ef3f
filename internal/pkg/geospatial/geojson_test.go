package geospatial_test

import (
	"reflect"
	"testing"

	"github.com/acreblitz/fieldgate/internal/core/domain"
	"github.com/acreblitz/fieldgate/internal/pkg/geospatial"
)

func openRing() []geospatial.LatLon {
	return []geospatial.LatLon{
		{Lat: 41.0, Lon: -93.0},
		{Lat: 41.0, Lon: -92.9},
		{Lat: 41.1, Lon: -92.9},
		{Lat: 41.1, Lon: -93.0},
		{Lat: 41.05, Lon: -93.05},
	}
}

func TestFromNativePolygons_SinglePolygonClosesRing(t *testing.T) {
	g := geospatial.FromNativePolygons([][][]geospatial.LatLon{{openRing()}})
	if g == nil {
		t.Fatal("expected geometry, got nil")
	}
	if g.Type != domain.GeometryPolygon {
		t.Fatalf("expected Polygon, got %s", g.Type)
	}

	ring := g.Polygon[0]
	if len(ring) != 6 {
		t.Fatalf("expected 5 points + closing point, got %d", len(ring))
	}
	first, last := ring[0], ring[len(ring)-1]
	if first[0] != last[0] || first[1] != last[1] {
		t.Errorf("ring is not closed: first=%v last=%v", first, last)
	}
	// Ordinate order must be [lon, lat].
	if first[0] != -93.0 || first[1] != 41.0 {
		t.Errorf("expected [lon lat] order, got %v", first)
	}
}

func TestFromNativePolygons_MultiPolygon(t *testing.T) {
	g := geospatial.FromNativePolygons([][][]geospatial.LatLon{
		{openRing()},
		{openRing()},
	})
	if g.Type != domain.GeometryMultiPolygon {
		t.Fatalf("expected MultiPolygon for 2 polygons, got %s", g.Type)
	}
	if len(g.MultiPolygon) != 2 {
		t.Fatalf("expected 2 polygons, got %d", len(g.MultiPolygon))
	}
}

func TestFromNativePolygons_Empty(t *testing.T) {
	if g := geospatial.FromNativePolygons(nil); g != nil {
		t.Errorf("expected nil geometry for empty input, got %+v", g)
	}
}

func TestNativeRoundTrip(t *testing.T) {
	g := geospatial.FromNativePolygons([][][]geospatial.LatLon{{openRing()}})
	again := geospatial.FromNativePolygons(geospatial.NativeFromGeoJSON(g))
	if !reflect.DeepEqual(g, again) {
		t.Errorf("round trip changed geometry:\n got %+v\nwant %+v", again, g)
	}
}

func TestToWKT(t *testing.T) {
	tests := []struct {
		name string
		geom *domain.Geometry
		want string
	}{
		{
			name: "point",
			geom: &domain.Geometry{Type: domain.GeometryPoint, Point: []float64{-93.5, 41.25}},
			want: "POINT(-93.5 41.25)",
		},
		{
			name: "polygon",
			geom: &domain.Geometry{Type: domain.GeometryPolygon, Polygon: [][][]float64{
				{{0, 0}, {1, 0}, {1, 1}, {0, 0}},
			}},
			want: "POLYGON((0 0,1 0,1 1,0 0))",
		},
		{
			name: "multipolygon",
			geom: &domain.Geometry{Type: domain.GeometryMultiPolygon, MultiPolygon: [][][][]float64{
				{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}},
				{{{5, 5}, {6, 5}, {6, 6}, {5, 5}}},
			}},
			want: "MULTIPOLYGON(((0 0,1 0,1 1,0 0)),((5 5,6 5,6 6,5 5)))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := geospatial.ToWKT(tt.geom)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToWKT_UnsupportedType(t *testing.T) {
	_, err := geospatial.ToWKT(&domain.Geometry{Type: "LineString"})
	if err == nil {
		t.Fatal("expected error for unsupported geometry")
	}
}

func TestFlattenCoordinates(t *testing.T) {
	g := &domain.Geometry{Type: domain.GeometryMultiPolygon, MultiPolygon: [][][][]float64{
		{{{0, 0}, {1, 0}, {0, 0}}},
		{{{5, 5}, {6, 5}, {5, 5}}},
	}}
	coords := geospatial.FlattenCoordinates(g)
	if len(coords) != 6 {
		t.Fatalf("expected 6 coordinates, got %d", len(coords))
	}
	if coords[3][0] != 5 || coords[3][1] != 5 {
		t.Errorf("flatten order broken: coords[3]=%v", coords[3])
	}
}

func TestBounds(t *testing.T) {
	coords := [][]float64{{-93.1, 41.0}, {-92.9, 41.2}, {-93.0, 40.9}}
	got := geospatial.Bounds(coords)
	want := [4]float64{-93.1, 40.9, -92.9, 41.2}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBounds_Empty(t *testing.T) {
	if got := geospatial.Bounds(nil); got != ([4]float64{}) {
		t.Errorf("expected zero bounds for empty input, got %v", got)
	}
}

func TestConvertFormat(t *testing.T) {
	g := &domain.Geometry{Type: domain.GeometryPolygon, Polygon: [][][]float64{
		{{0, 0}, {1, 0}, {1, 1}, {0, 0}},
	}}

	wkt, err := geospatial.ConvertFormat(g, domain.FormatWKT)
	if err != nil {
		t.Fatalf("wkt: %v", err)
	}
	if wkt.WKT == "" || wkt.GeoJSON != nil {
		t.Errorf("expected WKT payload only, got %+v", wkt)
	}

	coords, err := geospatial.ConvertFormat(g, domain.FormatCoordinates)
	if err != nil {
		t.Fatalf("coordinates: %v", err)
	}
	if len(coords.Coordinates) != 4 {
		t.Errorf("expected 4 flattened coordinates, got %d", len(coords.Coordinates))
	}

	// Unknown formats pass the geometry through unchanged.
	passthrough, err := geospatial.ConvertFormat(g, "shapefile")
	if err != nil {
		t.Fatalf("passthrough: %v", err)
	}
	if passthrough.GeoJSON != g {
		t.Error("unknown format should pass geometry through as GeoJSON")
	}
}
