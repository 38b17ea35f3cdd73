package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidSnapshot = errors.New("invalid document snapshot")
	ErrDuplicateID     = errors.New("duplicate object id")
	ErrUnknownKind     = errors.New("unknown object kind")
)

// Marshal serializes the document without guide objects.
func Marshal(doc *Document) ([]byte, error) {
	out := *doc
	out.Objects = make([]Object, 0, len(doc.Objects))
	for _, obj := range doc.Objects {
		if obj.IsGuide() {
			continue
		}
		out.Objects = append(out.Objects, obj)
	}
	data, err := json.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return data, nil
}

// Unmarshal decodes and validates a serialized document. Guide objects are dropped.
// Either a fully valid document is returned or an error; nothing is partially applied.
func Unmarshal(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	objects := make([]Object, 0, len(doc.Objects))
	for _, obj := range doc.Objects {
		if obj.IsGuide() {
			continue
		}
		objects = append(objects, obj)
	}
	doc.Objects = objects

	if err := Validate(&doc); err != nil {
		return nil, err
	}
	if doc.View.Zoom <= 0 {
		doc.View.Zoom = 1
	}
	if doc.View.GridSize <= 0 {
		doc.View.GridSize = DefaultGridSize
	}
	return &doc, nil
}

// Validate checks the document invariants: known kinds, unique non-empty ids,
// finite geometry and a positive canvas.
func Validate(doc *Document) error {
	if !positive(doc.Canvas.Width) || !positive(doc.Canvas.Height) {
		return fmt.Errorf("%w: canvas %vx%v", ErrInvalidSnapshot, doc.Canvas.Width, doc.Canvas.Height)
	}
	if !isFinite(doc.View.GridSize) || !isFinite(doc.View.Zoom) {
		return fmt.Errorf("%w: non-finite view settings", ErrInvalidSnapshot)
	}

	seen := make(map[string]struct{}, len(doc.Objects))
	for i := range doc.Objects {
		obj := &doc.Objects[i]
		if obj.ID == "" {
			return fmt.Errorf("%w: object %d has no id", ErrInvalidSnapshot, i)
		}
		if _, dup := seen[obj.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, obj.ID)
		}
		seen[obj.ID] = struct{}{}

		if err := ValidateObject(obj); err != nil {
			return err
		}
	}
	return nil
}

// ValidateObject checks a single object: a known kind, finite numbers everywhere
// and opacity within [0, 1]. It does not look at the id.
func ValidateObject(obj *Object) error {
	if !obj.Kind.Valid() {
		return fmt.Errorf("%w: %q on %s", ErrUnknownKind, obj.Kind, obj.ID)
	}

	t := obj.Transform
	values := []float64{t.X, t.Y, t.Width, t.Height, t.Angle, t.ScaleX, t.ScaleY, obj.Style.StrokeWidth}
	if obj.Text != nil {
		values = append(values, obj.Text.FontSize)
	}
	if obj.Shape != nil {
		values = append(values, obj.Shape.CornerRadius)
		values = append(values, obj.Shape.Points...)
	}
	for _, v := range values {
		if !isFinite(v) {
			return fmt.Errorf("%w: non-finite geometry on %s", ErrInvalidSnapshot, obj.ID)
		}
	}

	if !(obj.Style.Opacity >= 0 && obj.Style.Opacity <= 1) {
		return fmt.Errorf("%w: opacity %v on %s", ErrInvalidSnapshot, obj.Style.Opacity, obj.ID)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
