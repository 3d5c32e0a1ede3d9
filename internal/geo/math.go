package geo

import "math"

const (
	earthRadiusKm = 6371.0088

	// MaxLat is the latitude limit of the Web Mercator projection.
	MaxLat = 85.05112878
)

// Distance returns the great-circle distance in kilometres between two
// WGS84 points using the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := math.Pi / 180.0

	dLat := (lat2 - lat1) * toRad
	dLon := (lon2 - lon1) * toRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*toRad)*math.Cos(lat2*toRad)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// PathLength sums the distances between consecutive [lat, lon] points.
func PathLength(points [][2]float64) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += Distance(points[i-1][0], points[i-1][1], points[i][0], points[i][1])
	}

	return total
}

// ClampLat limits a latitude to the range a Mercator map can display.
func ClampLat(lat float64) float64 {
	if lat > MaxLat {
		return MaxLat
	} else if lat < -MaxLat {
		return -MaxLat
	}

	return lat
}
