package renderer

import (
	"math"
	"strings"
)

const (
	barFull  = "█"
	barEmpty = "░"
)

// ProgressBar draws fraction (clamped to [0, 1]) as a bar of width cells.
func ProgressBar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	if math.IsNaN(fraction) {
		fraction = 0
	}
	fraction = math.Max(0, math.Min(1, fraction))

	filled := int(math.Round(fraction * float64(width)))
	return strings.Repeat(barFull, filled) + strings.Repeat(barEmpty, width-filled)
}

// PercentBar is ProgressBar for a value in [0, 100].
func PercentBar(percent float64, width int) string {
	return ProgressBar(percent/100, width)
}
