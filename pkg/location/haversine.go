package location

import "math"

// EarthRadiusKm is the Earth radius in kilometers for Haversine.
const EarthRadiusKm = 6371.0

// kmPerDegree is the rough length of one degree of latitude.
const kmPerDegree = 111.0

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// HaversineKm returns distance in km between two points (lat/lng in degrees).
// Inputs are not range checked; NaN propagates to the result.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	φ1, φ2 := DegToRad(lat1), DegToRad(lat2)
	Δφ := DegToRad(lat2 - lat1)
	Δλ := DegToRad(lng2 - lng1)
	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) +
		math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	// rounding can push a just past 1 for antipodal points
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// MetersToDegrees converts a distance in meters to approximate degrees (~111km per degree).
func MetersToDegrees(meters float64) float64 {
	return meters / (kmPerDegree * 1000)
}

// BoundingBox returns a lat/lng box that contains every point within radiusKm of the center.
// Longitude delta widens with latitude; near the poles it covers the whole range.
func BoundingBox(lat, lng, radiusKm float64) (latMin, latMax, lngMin, lngMax float64) {
	latDelta := MetersToDegrees(radiusKm * 1000)
	lngDelta := 180.0
	if c := math.Cos(DegToRad(lat)); c > 1e-6 {
		lngDelta = math.Min(180, latDelta/c)
	}
	return lat - latDelta, lat + latDelta, lng - lngDelta, lng + lngDelta
}
