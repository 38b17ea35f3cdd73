package engine

import "github.com/inamate/studio/internal/document"

// Rect is an axis-aligned box in canvas coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains checks if a point is inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// Bounds returns the canvas-space bounding box of an object.
func Bounds(obj *document.Object) Rect {
	return ObjectMatrix(obj.Transform).TransformRect(Rect{Width: obj.Transform.Width, Height: obj.Transform.Height})
}

// ContainsPoint reports whether (x, y) falls inside the object's rotated box.
func ContainsPoint(obj *document.Object, x, y float64) bool {
	m := ObjectMatrix(obj.Transform)
	if m.Determinant() == 0 {
		return false
	}
	lx, ly := m.Invert().TransformPoint(x, y)
	return lx >= 0 && lx <= obj.Transform.Width && ly >= 0 && ly <= obj.Transform.Height
}

// HitTest returns the top-most visible, selectable object containing (x, y),
// or an empty string.
func HitTest(doc *document.Document, x, y float64) string {
	for i := len(doc.Objects) - 1; i >= 0; i-- {
		obj := &doc.Objects[i]
		if !obj.Visible || !obj.Selectable || obj.IsGuide() {
			continue
		}
		if !Bounds(obj).Contains(x, y) {
			continue
		}
		if ContainsPoint(obj, x, y) {
			return obj.ID
		}
	}
	return ""
}
