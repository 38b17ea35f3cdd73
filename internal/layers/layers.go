// Package layers derives the layer panel list from a document.
//
// The list is always recomputed from scratch; it is never patched in place.
package layers

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/inamate/studio/internal/document"
)

// NameLength is the number of runes of text content used as a text layer's name.
const NameLength = 24

type Type string

const (
	TypeText       Type = "text"
	TypeImage      Type = "image"
	TypeShape      Type = "shape"
	TypeBackground Type = "background"
)

// Item summarizes one document object for the layer panel.
type Item struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    Type   `json:"type"`
	Visible bool   `json:"visible"`
	Locked  bool   `json:"locked"`
	// PaintIndex is the object's position in the document order.
	PaintIndex int `json:"paintIndex"`
}

// Project returns the layers of doc, top-most first, without guide objects.
func Project(doc *document.Document) []Item {
	items := make([]Item, 0, len(doc.Objects))
	for i := len(doc.Objects) - 1; i >= 0; i-- {
		obj := &doc.Objects[i]
		if obj.IsGuide() {
			continue
		}
		items = append(items, Item{
			ID:         obj.ID,
			Name:       DisplayName(obj),
			Type:       TypeOf(obj.Kind),
			Visible:    obj.Visible,
			Locked:     obj.Locked(),
			PaintIndex: i,
		})
	}
	return items
}

// TypeOf maps an object kind to its coarse layer type.
func TypeOf(kind document.ObjectKind) Type {
	switch kind {
	case document.KindText:
		return TypeText
	case document.KindImage:
		return TypeImage
	case document.KindBackground:
		return TypeBackground
	default:
		return TypeShape
	}
}

// DisplayName is the object's own name if set, the start of its content for
// text, and its kind otherwise.
func DisplayName(obj *document.Object) string {
	if name := strings.TrimSpace(obj.Name); name != "" {
		return name
	}
	if obj.Kind == document.KindText && obj.Text != nil {
		if content := firstLine(obj.Text.Content); content != "" {
			return truncate(content, NameLength)
		}
	}
	// A Caser holds state, so each call gets its own.
	return cases.Title(language.English).String(string(obj.Kind))
}

func firstLine(s string) string {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

// PaintIndex converts a position in the layer list back to a paint index.
// It returns -1 when layerIndex is out of range.
func PaintIndex(items []Item, layerIndex int) int {
	if layerIndex < 0 || layerIndex >= len(items) {
		return -1
	}
	return items[layerIndex].PaintIndex
}
