package canvas

import "math"

// DefaultHitRadiusPx is how far from a marker center a pointer still selects it.
const DefaultHitRadiusPx = 10.0

// HitTest returns the id of the first marker within hitRadiusPx of pointer.
// Overlapping markers resolve to the earliest one, which is the first drawn.
// A non-positive radius means DefaultHitRadiusPx.
func HitTest(pointer Point, markers []Marker, hitRadiusPx float64) (string, bool) {
	if hitRadiusPx <= 0 {
		hitRadiusPx = DefaultHitRadiusPx
	}
	for _, m := range markers {
		if math.Hypot(pointer.X-m.X, pointer.Y-m.Y) <= hitRadiusPx {
			return m.UserID, true
		}
	}
	return "", false
}
