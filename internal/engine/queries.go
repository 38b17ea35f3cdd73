package engine

import (
	"github.com/inamate/studio/internal/document"
	"github.com/inamate/studio/internal/layers"
)

// State is the UI-facing summary of the editor after a mutation.
type State struct {
	Layers        []layers.Item   `json:"layers"`
	Selection     string          `json:"selection,omitempty"`
	CanUndo       bool            `json:"canUndo"`
	CanRedo       bool            `json:"canRedo"`
	HistoryIndex  int             `json:"historyIndex"`
	HistoryLength int             `json:"historyLength"`
	Modified      bool            `json:"modified"`
	Canvas        document.Canvas `json:"canvas"`
	View          document.View   `json:"view"`
}

func (e *Engine) State() State {
	sel, _ := e.selection.Active()
	return State{
		Layers:        e.Layers(),
		Selection:     sel,
		CanUndo:       e.history.CanUndo(),
		CanRedo:       e.history.CanRedo(),
		HistoryIndex:  e.history.Index(),
		HistoryLength: e.history.Len(),
		Modified:      e.doc.Modified,
		Canvas:        e.doc.Canvas,
		View:          e.doc.View,
	}
}

// Document returns a deep copy of the live document.
func (e *Engine) Document() *document.Document {
	return e.doc.Clone()
}

// Object returns a copy of one object.
func (e *Engine) Object(id string) (document.Object, bool) {
	obj, ok := e.doc.Find(id)
	if !ok {
		return document.Object{}, false
	}
	return obj.Clone(), true
}

// Objects returns the object ids in paint order.
func (e *Engine) Objects() []string {
	return e.doc.IDs()
}

// Layers returns the layer list, top-most first.
func (e *Engine) Layers() []layers.Item {
	out := make([]layers.Item, len(e.layers))
	copy(out, e.layers)
	return out
}

// Guides returns the current grid guide objects.
func (e *Engine) Guides() []document.Object {
	out := make([]document.Object, len(e.guides))
	for i := range e.guides {
		out[i] = e.guides[i].Clone()
	}
	return out
}

// Selection returns the active object id.
func (e *Engine) Selection() (string, bool) {
	return e.selection.Active()
}

// SelectionBounds returns the canvas-space box of the selected object.
func (e *Engine) SelectionBounds() Rect {
	id, ok := e.selection.Active()
	if !ok {
		return Rect{}
	}
	obj, ok := e.doc.Find(id)
	if !ok {
		return Rect{}
	}
	return Bounds(obj)
}

func (e *Engine) View() document.View     { return e.doc.View }
func (e *Engine) Canvas() document.Canvas { return e.doc.Canvas }
func (e *Engine) Zoom() float64           { return e.doc.View.Zoom }
func (e *Engine) Modified() bool          { return e.doc.Modified }
func (e *Engine) HistoryIndex() int       { return e.history.Index() }
func (e *Engine) HistoryLen() int         { return e.history.Len() }

// Surface returns the rendering surface the engine paints on.
func (e *Engine) Surface() Surface {
	return e.surface
}
