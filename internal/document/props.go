package document

import (
	"encoding/json"
	"fmt"
)

// Props is a partial set of object attributes. Nil fields are left untouched.
type Props struct {
	Name *string `json:"name,omitempty"`

	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Angle  *float64 `json:"angle,omitempty"`
	ScaleX *float64 `json:"scaleX,omitempty"`
	ScaleY *float64 `json:"scaleY,omitempty"`

	Fill        *string  `json:"fill,omitempty"`
	Stroke      *string  `json:"stroke,omitempty"`
	StrokeWidth *float64 `json:"strokeWidth,omitempty"`
	Opacity     *float64 `json:"opacity,omitempty"`

	Content    *string  `json:"content,omitempty"`
	FontFamily *string  `json:"fontFamily,omitempty"`
	FontSize   *float64 `json:"fontSize,omitempty"`
	FontWeight *string  `json:"fontWeight,omitempty"`
	FontStyle  *string  `json:"fontStyle,omitempty"`
	TextAlign  *string  `json:"textAlign,omitempty"`

	ImageURL *string `json:"imageUrl,omitempty"`

	CornerRadius *float64 `json:"cornerRadius,omitempty"`

	Visible    *bool `json:"visible,omitempty"`
	Selectable *bool `json:"selectable,omitempty"`
}

// ParseProps decodes a JSON property subset.
func ParseProps(data json.RawMessage) (Props, error) {
	var p Props
	if err := json.Unmarshal(data, &p); err != nil {
		return Props{}, fmt.Errorf("invalid props: %w", err)
	}
	return p, nil
}

// IsEmpty reports whether no field is set.
func (p Props) IsEmpty() bool {
	return p == Props{}
}

// Apply merges the set fields into obj. Text fields only apply to text objects,
// the image URL only to images. Non-finite numbers and negative sizes are ignored
// and opacity is clamped to [0, 1].
func (p Props) Apply(obj *Object) {
	if p.Name != nil {
		obj.Name = *p.Name
	}

	t := &obj.Transform
	if finite(p.X) {
		t.X = *p.X
	}
	if finite(p.Y) {
		t.Y = *p.Y
	}
	if finite(p.Width) && *p.Width >= 0 {
		t.Width = *p.Width
	}
	if finite(p.Height) && *p.Height >= 0 {
		t.Height = *p.Height
	}
	if finite(p.Angle) {
		t.Angle = *p.Angle
	}
	if finite(p.ScaleX) && *p.ScaleX != 0 {
		t.ScaleX = *p.ScaleX
	}
	if finite(p.ScaleY) && *p.ScaleY != 0 {
		t.ScaleY = *p.ScaleY
	}

	s := &obj.Style
	if p.Fill != nil {
		s.Fill = *p.Fill
	}
	if p.Stroke != nil {
		s.Stroke = *p.Stroke
	}
	if finite(p.StrokeWidth) && *p.StrokeWidth >= 0 {
		s.StrokeWidth = *p.StrokeWidth
	}
	if finite(p.Opacity) {
		s.Opacity = clamp01(*p.Opacity)
	}

	if obj.Kind == KindText {
		if obj.Text == nil {
			obj.Text = &TextData{}
		}
		if p.Content != nil {
			obj.Text.Content = *p.Content
		}
		if p.FontFamily != nil {
			obj.Text.FontFamily = *p.FontFamily
		}
		if finite(p.FontSize) && *p.FontSize > 0 {
			obj.Text.FontSize = *p.FontSize
		}
		if p.FontWeight != nil {
			obj.Text.FontWeight = *p.FontWeight
		}
		if p.FontStyle != nil {
			obj.Text.FontStyle = *p.FontStyle
		}
		if p.TextAlign != nil {
			obj.Text.TextAlign = *p.TextAlign
		}
	}

	if obj.Kind == KindImage && p.ImageURL != nil {
		if obj.Image == nil {
			obj.Image = &ImageData{}
		}
		obj.Image.URL = *p.ImageURL
	}

	if finite(p.CornerRadius) && *p.CornerRadius >= 0 {
		if obj.Shape == nil {
			obj.Shape = &ShapeData{}
		}
		obj.Shape.CornerRadius = *p.CornerRadius
	}

	if p.Visible != nil {
		obj.Visible = *p.Visible
	}
	if p.Selectable != nil {
		obj.Selectable = *p.Selectable
	}
}

func finite(v *float64) bool {
	return v != nil && isFinite(*v)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Ptr returns a pointer to v, for building Props literals.
func Ptr[T any](v T) *T {
	return &v
}
