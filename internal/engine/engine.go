package engine

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/inamate/studio/internal/document"
	"github.com/inamate/studio/internal/history"
	"github.com/inamate/studio/internal/layers"
	"github.com/inamate/studio/internal/selection"
	"github.com/inamate/studio/internal/snap"
	"github.com/inamate/studio/internal/typeid"
)

// Engine is the editor façade. It owns the document, the undo history, the
// selection and the derived layer list, and it is the only place they change.
//
// An Engine is not safe for concurrent use. Every method leaves the document,
// layers, history, selection and surface consistent before it returns.
type Engine struct {
	doc       *document.Document
	history   *history.Stack
	selection selection.Controller

	// Derived state, recomputed on every mutation
	layers []layers.Item
	guides []document.Object

	surface Surface
	refs    map[string]PrimitiveRef

	logger  *slog.Logger
	zoomMin float64
	zoomMax float64
}

// New creates an engine with an empty document.
func New(opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.surface == nil {
		o.surface = NewDrawList()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	doc := document.New(o.canvasWidth, o.canvasHeight)
	doc.View.GridSize = o.gridSize

	e := &Engine{
		doc:     doc,
		history: history.New(o.historyLimit),
		surface: o.surface,
		refs:    make(map[string]PrimitiveRef),
		logger:  o.logger,
		zoomMin: o.zoomMin,
		zoomMax: o.zoomMax,
	}
	e.refresh()
	return e
}

// --- Object mutations ---

// AddObject places obj on top of the paint order and returns its id. A missing
// or already used id is replaced by a fresh one. Objects with non-finite numbers
// are rejected with an empty id. History is not touched; call Commit once the
// edit is complete.
func (e *Engine) AddObject(obj document.Object) string {
	if !obj.Kind.Valid() {
		e.logger.Debug("add object: rejected kind", "kind", obj.Kind)
		return ""
	}

	obj = obj.Clone()
	if obj.ID == "" || e.doc.Has(obj.ID) {
		obj.ID = typeid.NewObjectID()
	}
	if obj.Transform.ScaleX == 0 {
		obj.Transform.ScaleX = 1
	}
	if obj.Transform.ScaleY == 0 {
		obj.Transform.ScaleY = 1
	}
	obj.Style.Opacity = min(max(obj.Style.Opacity, 0), 1)
	if err := document.ValidateObject(&obj); err != nil {
		e.logger.Debug("add object: rejected", "id", obj.ID, "error", err)
		return ""
	}

	e.doc.Append(obj)
	e.doc.Modified = true
	e.refresh()
	return obj.ID
}

// RemoveObject deletes an object. The selection is cleared in the same step if
// it pointed at the removed object.
func (e *Engine) RemoveObject(id string) bool {
	if _, ok := e.doc.Remove(id); !ok {
		e.logger.Debug("remove object: not found", "id", id)
		return false
	}
	e.selection.ClearIf(id)
	e.doc.Modified = true
	e.refresh()
	return true
}

// UpdateObjectProperties merges props into an object. An empty id targets the
// current selection. Locking the selected object deselects it.
func (e *Engine) UpdateObjectProperties(id string, props document.Props) bool {
	if id == "" {
		id, _ = e.selection.Active()
	}
	obj, ok := e.doc.Find(id)
	if !ok {
		e.logger.Debug("update object: not found", "id", id)
		return false
	}
	if props.IsEmpty() {
		return false
	}

	props.Apply(obj)
	if obj.Locked() {
		e.selection.ClearIf(id)
	}
	e.doc.Modified = true
	e.refresh()
	return true
}

// MoveObject positions an object during a drag. The position snaps to the grid
// when snapping is on. Locked objects do not move.
func (e *Engine) MoveObject(id string, x, y float64) bool {
	obj, ok := e.doc.Find(id)
	if !ok {
		e.logger.Debug("move object: not found", "id", id)
		return false
	}
	if obj.Locked() {
		e.logger.Debug("move object: locked", "id", id)
		return false
	}
	if !finite(x) || !finite(y) {
		e.logger.Debug("move object: non-finite position", "id", id, "x", x, "y", y)
		return false
	}

	if e.doc.View.SnapToGrid {
		x, y = snap.Point(x, y, e.doc.View.GridSize)
	}
	if obj.Transform.X == x && obj.Transform.Y == y {
		return false
	}
	obj.Transform.X = x
	obj.Transform.Y = y
	e.doc.Modified = true
	e.refresh()
	return true
}

// ReorderObject moves the object at paint index from to paint index to.
func (e *Engine) ReorderObject(from, to int) bool {
	if !e.doc.Move(from, to) {
		e.logger.Debug("reorder: rejected", "from", from, "to", to, "len", e.doc.Len())
		return false
	}
	e.doc.Modified = true
	e.refresh()
	return true
}

// ReorderLayer moves a layer between two positions of the layer list, which is
// the paint order reversed.
func (e *Engine) ReorderLayer(from, to int) bool {
	pf := layers.PaintIndex(e.layers, from)
	pt := layers.PaintIndex(e.layers, to)
	if pf < 0 || pt < 0 {
		e.logger.Debug("reorder layer: out of range", "from", from, "to", to, "len", len(e.layers))
		return false
	}
	return e.ReorderObject(pf, pt)
}

// BringToFront moves an object to the top of the paint order.
func (e *Engine) BringToFront(id string) bool {
	return e.ReorderObject(e.doc.Index(id), e.doc.Len()-1)
}

// SendToBack moves an object to the bottom of the paint order.
func (e *Engine) SendToBack(id string) bool {
	return e.ReorderObject(e.doc.Index(id), 0)
}

func (e *Engine) SetVisible(id string, visible bool) bool {
	return e.UpdateObjectProperties(id, document.Props{Visible: &visible})
}

func (e *Engine) SetLocked(id string, locked bool) bool {
	selectable := !locked
	return e.UpdateObjectProperties(id, document.Props{Selectable: &selectable})
}

// --- Document settings ---

func (e *Engine) SetGridEnabled(enabled bool) {
	e.doc.View.GridEnabled = enabled
	e.refreshGuides()
}

func (e *Engine) SetGridVisible(visible bool) {
	e.doc.View.GridVisible = visible
	e.refreshGuides()
}

// SetGridSize changes the grid cell size. Non-positive and infinite sizes are rejected.
func (e *Engine) SetGridSize(size float64) bool {
	if !(size > 0) || math.IsInf(size, 0) {
		e.logger.Debug("set grid size: rejected", "size", size)
		return false
	}
	e.doc.View.GridSize = size
	e.refreshGuides()
	return true
}

// SetSnap toggles snapping of dragged positions to the grid.
func (e *Engine) SetSnap(enabled bool) {
	e.doc.View.SnapToGrid = enabled
}

// SetZoom clamps factor to the configured range and returns the applied zoom.
// Zoom only affects the view transform.
func (e *Engine) SetZoom(factor float64) float64 {
	if math.IsNaN(factor) {
		return e.doc.View.Zoom
	}
	e.doc.View.Zoom = min(max(factor, e.zoomMin), e.zoomMax)
	return e.doc.View.Zoom
}

// SetCanvasSize resizes the canvas. Object coordinates are left as they are.
func (e *Engine) SetCanvasSize(width, height float64) bool {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		e.logger.Debug("set canvas size: rejected", "width", width, "height", height)
		return false
	}
	e.doc.Canvas = document.Canvas{Width: width, Height: height}
	e.doc.Modified = true
	e.refreshGuides()
	return true
}

// --- Selection ---

// Select activates an existing, selectable object. An empty id clears the selection.
func (e *Engine) Select(id string) bool {
	if id == "" {
		e.ClearSelection()
		return true
	}
	obj, ok := e.doc.Find(id)
	if !ok || obj.Locked() {
		e.logger.Debug("select: not selectable", "id", id, "found", ok)
		return false
	}
	e.selection.Select(id)
	e.syncSurface()
	return true
}

// SelectAt selects the top-most selectable object under (x, y), or clears the
// selection when there is none. It returns the selected id.
func (e *Engine) SelectAt(x, y float64) string {
	id := HitTest(e.doc, x, y)
	if id == "" {
		e.ClearSelection()
		return ""
	}
	e.selection.Select(id)
	e.syncSurface()
	return id
}

func (e *Engine) ClearSelection() {
	e.selection.Clear()
	e.syncSurface()
}

// --- History ---

// Commit records the current document as a new history entry. Call it after a
// discrete edit completes, not on every drag frame.
func (e *Engine) Commit() error {
	data, err := document.Marshal(e.doc)
	if err != nil {
		return err
	}
	if err := e.history.Push(data); err != nil {
		return fmt.Errorf("push history: %w", err)
	}
	return nil
}

// Undo replaces the document with the previous history entry.
func (e *Engine) Undo() bool {
	ok, err := e.history.Undo(e.restore)
	if err != nil {
		e.logger.Error("undo: restore failed", "error", err, "index", e.history.Index())
	}
	return ok
}

// Redo replaces the document with the next history entry.
func (e *Engine) Redo() bool {
	ok, err := e.history.Redo(e.restore)
	if err != nil {
		e.logger.Error("redo: restore failed", "error", err, "index", e.history.Index())
	}
	return ok
}

func (e *Engine) CanUndo() bool { return e.history.CanUndo() }
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// restore swaps in a snapshot wholesale. View settings stay as they are because
// they are not part of the edit history.
func (e *Engine) restore(entry history.Entry) error {
	doc, err := document.Unmarshal(entry.Snapshot)
	if err != nil {
		return err
	}
	doc.View = e.doc.View
	doc.Modified = true

	e.doc = doc
	e.selection.Clear()
	e.refreshGuides()
	return nil
}

// --- Boundary ---

// Snapshot serializes the document for saving.
func (e *Engine) Snapshot() ([]byte, error) {
	return document.Marshal(e.doc)
}

// Load replaces the document with a serialized one and starts a fresh history
// with it as the baseline. On error the current document is kept.
func (e *Engine) Load(data []byte) error {
	doc, err := document.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	baseline, err := document.Marshal(doc)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	doc.View.Zoom = min(max(doc.View.Zoom, e.zoomMin), e.zoomMax)

	e.doc = doc
	e.history.Reset(baseline)
	e.selection.Clear()
	e.refreshGuides()
	return nil
}

// MarkSaved clears the modified flag.
func (e *Engine) MarkSaved() {
	e.doc.Modified = false
}

// --- Derived state ---

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (e *Engine) refreshGuides() {
	e.guides = nil
	v := e.doc.View
	if v.GridEnabled && v.GridVisible {
		e.guides = GridGuides(e.doc.Canvas, v.GridSize)
	}
	e.refresh()
}

// refresh recomputes the layer list and repaints. It runs after every mutation.
func (e *Engine) refresh() {
	e.selection.Validate(e.doc.Has)
	e.layers = layers.Project(e.doc)
	e.syncSurface()
}

func (e *Engine) syncSurface() {
	e.surface.Clear()
	clear(e.refs)
	for _, obj := range e.doc.Objects {
		if !obj.Visible {
			continue
		}
		e.refs[obj.ID] = e.surface.CreatePrimitive(obj.Kind, obj.Clone())
	}
	for _, g := range e.guides {
		e.surface.CreatePrimitive(g.Kind, g.Clone())
	}
	var active PrimitiveRef
	if id, ok := e.selection.Active(); ok {
		active = e.refs[id]
	}
	e.surface.SetActivePrimitive(active)
	e.surface.Render()
}
