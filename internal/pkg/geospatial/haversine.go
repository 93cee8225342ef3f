package geospatial

import "math"

const earthRadiusKm = 6371.0

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// Centroid returns the arithmetic mean lat/lon of a flattened [lon, lat]
// coordinate list. Degenerate input returns (0, 0).
func Centroid(coords [][]float64) (lat, lon float64) {
	if len(coords) == 0 {
		return 0, 0
	}
	for _, c := range coords {
		lon += c[0]
		lat += c[1]
	}
	n := float64(len(coords))
	return lat / n, lon / n
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
