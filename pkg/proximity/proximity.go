package proximity

// labelSteps maps a minimum progress percentage to the label shown in the nearby list.
var labelSteps = []struct {
	min   float64
	label string
}{
	{75, "Very Close"},
	{50, "Nearby"},
	{25, "Within Area"},
}

// Label returns a privacy-safe proximity label based on progress (0-100).
// Progress 0 (at or beyond the radius, or unknown) has no label.
func Label(progressPct float64) string {
	for _, s := range labelSteps {
		if progressPct >= s.min {
			return s.label
		}
	}
	if progressPct > 0 {
		return "Far (within range)"
	}
	return ""
}

// Progress computes proximity progress: (1 - distance/radius) * 100, clamped to [0, 100].
func Progress(distanceKm, radiusKm float64) float64 {
	if radiusKm <= 0 || distanceKm >= radiusKm {
		return 0
	}
	p := (1 - distanceKm/radiusKm) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
