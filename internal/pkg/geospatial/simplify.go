package geospatial

import (
	"math"

	"github.com/acreblitz/fieldgate/internal/core/domain"
)

const (
	metersPerDegreeAtEquator = 111320.0

	// Latitude assumed when a geometry has no coordinates to average.
	fallbackLatitude = 40.0

	// A valid ring keeps at least 3 vertices plus the closing point.
	minRingPoints = 4
)

// Simplify reduces the vertex count of a Polygon or MultiPolygon with
// Douglas-Peucker, applied to each ring independently. The tolerance is given
// in meters and converted to degrees at the geometry's mean latitude; the
// conversion is approximate, not geodesic. Rings that would drop below
// minRingPoints are returned unchanged. Point geometries and non-positive
// tolerances pass through untouched.
func Simplify(g *domain.Geometry, toleranceMeters float64) *domain.Geometry {
	if g == nil || toleranceMeters <= 0 {
		return g
	}

	tolerance := degreesTolerance(toleranceMeters, meanLatitude(g))

	switch g.Type {
	case domain.GeometryPolygon:
		return &domain.Geometry{
			Type:    domain.GeometryPolygon,
			Polygon: simplifyRings(g.Polygon, tolerance),
		}
	case domain.GeometryMultiPolygon:
		out := make([][][][]float64, 0, len(g.MultiPolygon))
		for _, poly := range g.MultiPolygon {
			out = append(out, simplifyRings(poly, tolerance))
		}
		return &domain.Geometry{Type: domain.GeometryMultiPolygon, MultiPolygon: out}
	default:
		return g
	}
}

func simplifyRings(rings [][][]float64, tolerance float64) [][][]float64 {
	out := make([][][]float64, 0, len(rings))
	for _, ring := range rings {
		simplified := douglasPeucker(ring, tolerance)
		if len(simplified) < minRingPoints {
			out = append(out, ring)
			continue
		}
		out = append(out, simplified)
	}
	return out
}

// meanLatitude averages the latitude over all coordinates, falling back to
// fallbackLatitude for empty geometries.
func meanLatitude(g *domain.Geometry) float64 {
	coords := FlattenCoordinates(g)
	if len(coords) == 0 {
		return fallbackLatitude
	}
	var sum float64
	for _, c := range coords {
		sum += c[1]
	}
	return sum / float64(len(coords))
}

func degreesTolerance(meters, latitude float64) float64 {
	metersPerDegree := metersPerDegreeAtEquator * math.Cos(latitude*math.Pi/180)
	if metersPerDegree <= 0 {
		metersPerDegree = metersPerDegreeAtEquator
	}
	return meters / metersPerDegree
}

// douglasPeucker keeps the endpoints and recursively retains the point with
// the largest perpendicular distance from the chord while it exceeds the
// tolerance.
func douglasPeucker(points [][]float64, tolerance float64) [][]float64 {
	if len(points) <= 2 {
		return points
	}

	var maxDist float64
	index := 0
	first, last := points[0], points[len(points)-1]
	for i := 1; i < len(points)-1; i++ {
		d := perpendicularDistance(points[i], first, last)
		if d > maxDist {
			maxDist = d
			index = i
		}
	}

	if maxDist <= tolerance {
		return [][]float64{first, last}
	}

	left := douglasPeucker(points[:index+1], tolerance)
	right := douglasPeucker(points[index:], tolerance)

	// Merge into a fresh slice; appending onto left could write through its
	// capacity into the caller's ring.
	out := make([][]float64, 0, len(left)+len(right)-1)
	out = append(out, left[:len(left)-1]...)
	return append(out, right...)
}

func perpendicularDistance(p, a, b []float64) float64 {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	if dx == 0 && dy == 0 {
		return math.Hypot(p[0]-a[0], p[1]-a[1])
	}
	// Distance from p to the infinite line through a and b.
	num := math.Abs(dy*p[0] - dx*p[1] + b[0]*a[1] - b[1]*a[0])
	return num / math.Hypot(dx, dy)
}
