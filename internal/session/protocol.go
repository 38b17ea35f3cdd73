package session

import (
	"encoding/json"

	"github.com/inamate/studio/internal/document"
	"github.com/inamate/studio/internal/engine"
)

// Message is the websocket envelope in both directions. Responses echo the
// request Seq.
type Message struct {
	Type    string          `json:"type"`
	Seq     int64           `json:"seq,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	// Object edits
	TypeObjectAdd        = "object.add"
	TypeObjectRemove     = "object.remove"
	TypeObjectUpdate     = "object.update"
	TypeObjectMove       = "object.move"
	TypeObjectReorder    = "object.reorder"
	TypeObjectFront      = "object.front"
	TypeObjectBack       = "object.back"
	TypeObjectVisibility = "object.visibility"
	TypeObjectLocked     = "object.locked"
	TypeLayerReorder     = "layer.reorder"

	// Selection
	TypeSelectionSet = "selection.set"
	TypeSelectionHit = "selection.hit"

	// View and canvas
	TypeGridUpdate   = "grid.update"
	TypeSnapSet      = "snap.set"
	TypeZoomSet      = "zoom.set"
	TypeCanvasResize = "canvas.resize"

	// History
	TypeHistoryCommit = "history.commit"
	TypeHistoryUndo   = "history.undo"
	TypeHistoryRedo   = "history.redo"

	// Templates
	TypeTemplateLoad = "template.load"
	TypeTemplateSave = "template.save"

	// Server to client
	TypeWelcome = "welcome"
	TypeState   = "state"
	TypeError   = "error"
)

type ObjectAddPayload struct {
	Object document.Object `json:"object"`
	Select bool            `json:"select,omitempty"`
}

type ObjectRefPayload struct {
	ID string `json:"id"`
}

type ObjectUpdatePayload struct {
	ID    string          `json:"id,omitempty"`
	Props json.RawMessage `json:"props"`
}

type ObjectMovePayload struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type ReorderPayload struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type VisibilityPayload struct {
	ID      string `json:"id"`
	Visible bool   `json:"visible"`
}

type LockedPayload struct {
	ID     string `json:"id"`
	Locked bool   `json:"locked"`
}

type PointPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type GridPayload struct {
	Enabled *bool    `json:"enabled,omitempty"`
	Visible *bool    `json:"visible,omitempty"`
	Size    *float64 `json:"size,omitempty"`
}

type SnapPayload struct {
	Enabled bool `json:"enabled"`
}

type ZoomPayload struct {
	Zoom float64 `json:"zoom"`
}

type CanvasPayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type TemplateLoadPayload struct {
	ID string `json:"id"`
}

type TemplateSavePayload struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Public bool   `json:"public,omitempty"`
}

// StatePayload answers every accepted message. Changed is false when the
// request was a no-op. ObjectID carries the id produced by object.add,
// selection.hit and template.save.
type StatePayload struct {
	Changed  bool          `json:"changed"`
	ObjectID string        `json:"objectId,omitempty"`
	State    engine.State  `json:"state"`
	Frame    *engine.Frame `json:"frame,omitempty"`
}

type WelcomePayload struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
