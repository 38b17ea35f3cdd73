package document

// Document is the authoritative scene model. Objects are kept in paint order:
// index 0 paints first and sits at the bottom of the stack.
type Document struct {
	Canvas  Canvas   `json:"canvas"`
	View    View     `json:"view"`
	Objects []Object `json:"objects"`

	// Modified is set by every mutation and cleared when the document is saved.
	Modified bool `json:"-"`
}

type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// View holds editor settings that do not change the logical coordinates of objects.
// It is saved with the document but excluded from undo history: restoring a
// history entry keeps the live View.
type View struct {
	GridSize    float64 `json:"gridSize"`
	GridVisible bool    `json:"gridVisible"`
	GridEnabled bool    `json:"gridEnabled"`
	SnapToGrid  bool    `json:"snapToGrid"`
	Zoom        float64 `json:"zoom"`
}

type ObjectKind string

const (
	KindRect       ObjectKind = "rect"
	KindCircle     ObjectKind = "circle"
	KindTriangle   ObjectKind = "triangle"
	KindLine       ObjectKind = "line"
	KindText       ObjectKind = "text"
	KindImage      ObjectKind = "image"
	KindBackground ObjectKind = "background"

	// KindGuide marks synthetic grid lines. Guides live on the rendering surface only.
	KindGuide ObjectKind = "guide"
)

// Valid reports whether k is a known document kind. Guides are not document kinds.
func (k ObjectKind) Valid() bool {
	switch k {
	case KindRect, KindCircle, KindTriangle, KindLine, KindText, KindImage, KindBackground:
		return true
	}
	return false
}

type Transform struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Angle  float64 `json:"angle"`
	ScaleX float64 `json:"scaleX"`
	ScaleY float64 `json:"scaleY"`
}

type Style struct {
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	Opacity     float64 `json:"opacity"`
}

type TextData struct {
	Content    string  `json:"content"`
	FontFamily string  `json:"fontFamily"`
	FontSize   float64 `json:"fontSize"`
	FontWeight string  `json:"fontWeight,omitempty"`
	FontStyle  string  `json:"fontStyle,omitempty"`
	TextAlign  string  `json:"textAlign,omitempty"`
}

type ImageData struct {
	AssetID       string `json:"assetId,omitempty"`
	URL           string `json:"url"`
	NaturalWidth  int    `json:"naturalWidth"`
	NaturalHeight int    `json:"naturalHeight"`
}

type ShapeData struct {
	CornerRadius float64 `json:"cornerRadius,omitempty"`
	// Points are relative to the object origin; used by lines.
	Points []float64 `json:"points,omitempty"`
}

type Object struct {
	ID         string     `json:"id"`
	Kind       ObjectKind `json:"kind"`
	Name       string     `json:"name,omitempty"`
	Transform  Transform  `json:"transform"`
	Style      Style      `json:"style"`
	Text       *TextData  `json:"text,omitempty"`
	Image      *ImageData `json:"image,omitempty"`
	Shape      *ShapeData `json:"shape,omitempty"`
	Visible    bool       `json:"visible"`
	Selectable bool       `json:"selectable"`
}

// IsGuide reports whether the object is a synthetic grid artifact.
func (o *Object) IsGuide() bool {
	return o.Kind == KindGuide
}

// Locked is the inverse of Selectable.
func (o *Object) Locked() bool {
	return !o.Selectable
}

// Clone returns a deep copy of the object.
func (o Object) Clone() Object {
	if o.Text != nil {
		t := *o.Text
		o.Text = &t
	}
	if o.Image != nil {
		img := *o.Image
		o.Image = &img
	}
	if o.Shape != nil {
		s := *o.Shape
		if s.Points != nil {
			s.Points = append([]float64(nil), s.Points...)
		}
		o.Shape = &s
	}
	return o
}
