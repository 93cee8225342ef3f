package geospatial_test

import (
	"math"
	"testing"

	"github.com/acreblitz/fieldgate/internal/core/domain"
	"github.com/acreblitz/fieldgate/internal/pkg/geospatial"
)

// jaggedRing builds a closed ring with small perturbations along one edge so
// Douglas-Peucker has something to remove.
func jaggedRing(n int) [][]float64 {
	ring := make([][]float64, 0, n+4)
	for i := 0; i < n; i++ {
		jitter := 0.0
		if i%2 == 1 {
			jitter = 0.00001 // ~1 m at this latitude
		}
		ring = append(ring, []float64{-93.0 + float64(i)*0.001, 41.0 + jitter})
	}
	ring = append(ring, []float64{-93.0 + float64(n-1)*0.001, 41.1})
	ring = append(ring, []float64{-93.0, 41.1})
	ring = append(ring, ring[0])
	return ring
}

func TestSimplify_RemovesJitter(t *testing.T) {
	g := &domain.Geometry{Type: domain.GeometryPolygon, Polygon: [][][]float64{jaggedRing(20)}}
	before := len(g.Polygon[0])

	out := geospatial.Simplify(g, 10) // 10 m tolerance swallows ~1 m jitter
	after := len(out.Polygon[0])
	if after >= before {
		t.Errorf("expected fewer points, got %d -> %d", before, after)
	}
	if after < 4 {
		t.Errorf("simplified ring below floor: %d points", after)
	}

	ring := out.Polygon[0]
	first, last := ring[0], ring[len(ring)-1]
	if first[0] != last[0] || first[1] != last[1] {
		t.Error("simplified ring lost closure")
	}
}

func TestSimplify_FloorKeepsOriginalRing(t *testing.T) {
	// A tiny triangle that aggressive simplification would collapse.
	ring := [][]float64{{0, 0}, {0.0001, 0}, {0.0001, 0.0001}, {0, 0}}
	g := &domain.Geometry{Type: domain.GeometryPolygon, Polygon: [][][]float64{ring}}

	out := geospatial.Simplify(g, 100000)
	if len(out.Polygon[0]) != len(ring) {
		t.Errorf("expected original ring back, got %d points", len(out.Polygon[0]))
	}
}

func TestSimplify_DoesNotMutateInput(t *testing.T) {
	// The second point is a far outlier, which forces a split right after the
	// first point; a merge that reuses the input's backing array would
	// overwrite the ring in place.
	ring := [][]float64{{0, 0}, {1, 10}, {2, 0.001}, {3, 0.002}, {0, 0}}
	original := make([][]float64, len(ring))
	for i, pt := range ring {
		original[i] = []float64{pt[0], pt[1]}
	}
	g := &domain.Geometry{Type: domain.GeometryPolygon, Polygon: [][][]float64{ring}}

	out := geospatial.Simplify(g, 500000)

	for i, pt := range ring {
		if pt[0] != original[i][0] || pt[1] != original[i][1] {
			t.Fatalf("input ring mutated at %d: got %v, want %v", i, pt, original[i])
		}
	}
	// The collapse dropped below the floor, so the original ring comes back.
	if got := out.Polygon[0]; len(got) != len(original) {
		t.Fatalf("expected original ring back, got %d points", len(got))
	}
	for i, pt := range out.Polygon[0] {
		if pt[0] != original[i][0] || pt[1] != original[i][1] {
			t.Errorf("returned ring differs at %d: got %v, want %v", i, pt, original[i])
		}
	}
}

func TestSimplify_FloorHoldsAcrossTolerances(t *testing.T) {
	g := &domain.Geometry{Type: domain.GeometryPolygon, Polygon: [][][]float64{jaggedRing(30)}}
	for _, tol := range []float64{0.1, 1, 10, 100, 1000, 100000} {
		out := geospatial.Simplify(g, tol)
		for _, ring := range out.Polygon {
			if len(ring) < 4 {
				t.Fatalf("tolerance %v produced ring with %d points", tol, len(ring))
			}
		}
	}
}

func TestSimplify_ZeroToleranceIsNoop(t *testing.T) {
	g := &domain.Geometry{Type: domain.GeometryPolygon, Polygon: [][][]float64{jaggedRing(10)}}
	if out := geospatial.Simplify(g, 0); out != g {
		t.Error("zero tolerance should return the input unchanged")
	}
}

func TestSimplify_MultiPolygon(t *testing.T) {
	g := &domain.Geometry{Type: domain.GeometryMultiPolygon, MultiPolygon: [][][][]float64{
		{jaggedRing(20)},
		{jaggedRing(20)},
	}}
	out := geospatial.Simplify(g, 10)
	if len(out.MultiPolygon) != 2 {
		t.Fatalf("expected 2 polygons, got %d", len(out.MultiPolygon))
	}
	for _, poly := range out.MultiPolygon {
		for _, ring := range poly {
			if len(ring) < 4 {
				t.Errorf("ring below floor: %d points", len(ring))
			}
		}
	}
}

func TestHaversine(t *testing.T) {
	// Two points roughly 450 m apart across an Iowa section.
	d := geospatial.Haversine(42.0266, -93.6465, 42.0305, -93.6480)
	if d < 300 || d > 600 {
		t.Errorf("implausible distance: %f m", d)
	}
}

func TestCentroid(t *testing.T) {
	lat, lon := geospatial.Centroid([][]float64{{-93.0, 41.0}, {-92.0, 42.0}})
	if math.Abs(lat-41.5) > 1e-9 || math.Abs(lon+92.5) > 1e-9 {
		t.Errorf("got (%f, %f), want (41.5, -92.5)", lat, lon)
	}
}
