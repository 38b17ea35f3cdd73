package document

import "github.com/inamate/studio/internal/typeid"

// Defaults returns an object without id or kind carrying the attribute defaults:
// unit scale, full opacity, visible and selectable. Decoding a partial object on
// top of it keeps these for every field the input omits.
func Defaults() Object {
	return Object{
		Transform: Transform{ScaleX: 1, ScaleY: 1},
		Style: Style{
			Fill: "#000000", Opacity: 1,
		},
		Visible:    true,
		Selectable: true,
	}
}

func newObject(kind ObjectKind, x, y, w, h float64) Object {
	obj := Defaults()
	obj.ID = typeid.NewObjectID()
	obj.Kind = kind
	obj.Transform.X, obj.Transform.Y = x, y
	obj.Transform.Width, obj.Transform.Height = w, h
	return obj
}

func NewRect(x, y, w, h float64, fill string) Object {
	obj := newObject(KindRect, x, y, w, h)
	obj.Style.Fill = fill
	obj.Shape = &ShapeData{}
	return obj
}

// NewCircle creates a circle whose bounding box starts at (x, y).
func NewCircle(x, y, radius float64, fill string) Object {
	obj := newObject(KindCircle, x, y, radius*2, radius*2)
	obj.Style.Fill = fill
	return obj
}

func NewTriangle(x, y, w, h float64, fill string) Object {
	obj := newObject(KindTriangle, x, y, w, h)
	obj.Style.Fill = fill
	return obj
}

// NewLine creates a line from (x1, y1) to (x2, y2).
func NewLine(x1, y1, x2, y2 float64, stroke string, width float64) Object {
	obj := newObject(KindLine, min(x1, x2), min(y1, y2), abs(x2-x1), abs(y2-y1))
	obj.Style.Fill = ""
	obj.Style.Stroke = stroke
	obj.Style.StrokeWidth = width
	obj.Shape = &ShapeData{
		Points: []float64{x1 - obj.Transform.X, y1 - obj.Transform.Y, x2 - obj.Transform.X, y2 - obj.Transform.Y},
	}
	return obj
}

func NewText(content string, x, y, fontSize float64, fill string) Object {
	if fontSize <= 0 {
		fontSize = 32
	}
	// Width is an estimate until the surface measures the text.
	obj := newObject(KindText, x, y, float64(len([]rune(content)))*fontSize*0.6, fontSize*1.2)
	obj.Style.Fill = fill
	obj.Text = &TextData{
		Content:    content,
		FontFamily: "Inter",
		FontSize:   fontSize,
		FontWeight: "normal",
		TextAlign:  "left",
	}
	return obj
}

// NewImage creates an image object at its natural size.
func NewImage(ref ImageData, x, y float64) Object {
	obj := newObject(KindImage, x, y, float64(ref.NaturalWidth), float64(ref.NaturalHeight))
	obj.Style.Fill = ""
	obj.Image = &ref
	return obj
}

// NewBackground creates a locked full-canvas fill.
func NewBackground(fill string, w, h float64) Object {
	obj := newObject(KindBackground, 0, 0, w, h)
	obj.Name = "Background"
	obj.Style.Fill = fill
	obj.Selectable = false
	return obj
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
