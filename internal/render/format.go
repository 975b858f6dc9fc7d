package render

import (
	"math"
	"strconv"
)

// FormatNumber prints a distance in its shortest form: 10 -> "10", 12.5 -> "12.5".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatPercent prints a percentage with exactly one decimal place.
// Halves round away from zero, so 12.25 prints as "12.3".
func FormatPercent(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', 1, 64)
}
