// Package snap quantizes canvas coordinates to a square grid.
package snap

import "math"

// Snap rounds value to the nearest multiple of gridSize.
// A non-positive grid size leaves the value unchanged.
func Snap(value, gridSize float64) float64 {
	if gridSize <= 0 || math.IsNaN(gridSize) || math.IsInf(gridSize, 0) {
		return value
	}
	return math.Round(value/gridSize) * gridSize
}

// Point snaps both components of a position.
func Point(x, y, gridSize float64) (float64, float64) {
	return Snap(x, gridSize), Snap(y, gridSize)
}
