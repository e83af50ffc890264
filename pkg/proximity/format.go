package proximity

import (
	"fmt"
	"math"
)

// FormatDistance renders a distance for the user card.
func FormatDistance(km float64, known bool) string {
	if !known || math.IsNaN(km) {
		return "Unknown distance"
	}
	if km < 1 {
		return fmt.Sprintf("%d m away", int(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.1f km away", km)
}
