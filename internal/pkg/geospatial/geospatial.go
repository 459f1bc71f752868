package geospatial

import "math"

const earthRadiusM = 6371000.0

// OffsetPoint displaces a coordinate by a metre-based north/east vector,
// using a spherical-earth approximation. The longitude delta is corrected
// for meridian convergence at the given latitude. Every marker position and
// every marker-aligned camera target must be computed through this function
// so that both converge on the same displaced coordinate.
//
// Latitudes approaching the poles are outside the managed region and are
// not guarded.
func OffsetPoint(lat, lon, metersNorth, metersEast float64) (float64, float64) {
	dLat := metersNorth / earthRadiusM
	dLon := metersEast / (earthRadiusM * math.Cos(toRad(lat)))
	return lat + toDeg(dLat), lon + toDeg(dLon)
}

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}

// BoundingBox returns a bounding box around a point with the given radius in meters.
func BoundingBox(lat, lon, radiusMeters float64) (minLat, minLon, maxLat, maxLon float64) {
	latDelta := radiusMeters / 111320.0
	lonDelta := radiusMeters / (111320.0 * math.Cos(toRad(lat)))

	return lat - latDelta, lon - lonDelta, lat + latDelta, lon + lonDelta
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
