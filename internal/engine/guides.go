package engine

import (
	"fmt"

	"github.com/inamate/studio/internal/document"
)

const (
	guideColor = "#d0d4dc"

	// maxGuideLines bounds the lines generated per axis for very fine grids.
	maxGuideLines = 1000
)

// GridGuides builds the grid lines for a canvas. Guides are non-selectable and
// never enter the document, so they are excluded from layers and snapshots.
func GridGuides(canvas document.Canvas, gridSize float64) []document.Object {
	if gridSize <= 0 {
		return nil
	}

	var guides []document.Object
	for i, x := 1, gridSize; x < canvas.Width && i <= maxGuideLines; i, x = i+1, x+gridSize {
		guides = append(guides, guideLine(fmt.Sprintf("guide-v-%d", i), x, 0, 0, canvas.Height))
	}
	for i, y := 1, gridSize; y < canvas.Height && i <= maxGuideLines; i, y = i+1, y+gridSize {
		guides = append(guides, guideLine(fmt.Sprintf("guide-h-%d", i), 0, y, canvas.Width, 0))
	}
	return guides
}

func guideLine(id string, x, y, w, h float64) document.Object {
	return document.Object{
		ID:   id,
		Kind: document.KindGuide,
		Transform: document.Transform{
			X: x, Y: y, Width: w, Height: h, ScaleX: 1, ScaleY: 1,
		},
		Style: document.Style{
			Stroke: guideColor, StrokeWidth: 1, Opacity: 1,
		},
		Shape:      &document.ShapeData{Points: []float64{0, 0, w, h}},
		Visible:    true,
		Selectable: false,
	}
}
