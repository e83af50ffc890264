package location

import "math"

// Coordinate is a device fix. AccuracyMeters and TimestampMs are zero when the
// provider did not report them.
type Coordinate struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyMeters float64 `json:"accuracy,omitempty"`
	TimestampMs    int64   `json:"timestamp,omitempty"`
}

// DistanceKm returns the great-circle distance to other.
func (c Coordinate) DistanceKm(other Coordinate) float64 {
	return HaversineKm(c.Latitude, c.Longitude, other.Latitude, other.Longitude)
}

// Valid reports whether the fix lies on the globe.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Snap rounds the fix onto a grid of roughly meters-sized cells so the
// result can be shown without revealing the exact position. The longitude
// step widens with latitude to keep cells square on the ground.
func (c Coordinate) Snap(meters float64) Coordinate {
	if meters <= 0 {
		return c
	}
	step := MetersToDegrees(meters)
	out := Coordinate{AccuracyMeters: math.Max(c.AccuracyMeters, meters), TimestampMs: c.TimestampMs}
	out.Latitude = math.Max(-90, math.Min(90, math.Round(c.Latitude/step)*step))
	lngStep := step
	if cos := math.Cos(DegToRad(out.Latitude)); cos > 1e-6 {
		lngStep = math.Min(180, step/cos)
	}
	out.Longitude = math.Max(-180, math.Min(180, math.Round(c.Longitude/lngStep)*lngStep))
	return out
}
