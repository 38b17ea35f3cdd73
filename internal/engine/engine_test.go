package engine

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"math"
	"reflect"
	"testing"

	"github.com/inamate/studio/internal/document"
)

func newTestEngine(opts ...Option) *Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(append([]Option{WithLogger(logger)}, opts...)...)
}

func assertOrder(t *testing.T, e *Engine, want ...string) {
	t.Helper()
	if got := e.Objects(); !reflect.DeepEqual(got, want) {
		t.Fatalf("paint order = %v, want %v", got, want)
	}
	layers := e.Layers()
	if len(layers) != len(want) {
		t.Fatalf("expected %d layers, got %d", len(want), len(layers))
	}
	for i, item := range layers {
		if item.ID != want[len(want)-1-i] {
			t.Fatalf("layer %d = %s, want %s", i, item.ID, want[len(want)-1-i])
		}
	}
}

func TestExampleScenario(t *testing.T) {
	e := newTestEngine()
	rect := e.AddObject(document.NewRect(0, 0, 100, 100, "#f00"))
	text := e.AddObject(document.NewText("hello", 10, 10, 24, "#000"))
	if err := e.Commit(); err != nil {
		t.Fatal(err)
	}

	if !e.ReorderObject(0, 1) {
		t.Fatal("reorder rejected")
	}
	if err := e.Commit(); err != nil {
		t.Fatal(err)
	}
	assertOrder(t, e, text, rect)

	if !e.Undo() {
		t.Fatal("undo failed")
	}
	assertOrder(t, e, rect, text)

	if !e.Redo() {
		t.Fatal("redo failed")
	}
	assertOrder(t, e, text, rect)
}

func TestAddObjectAssignsUniqueIDs(t *testing.T) {
	e := newTestEngine()
	obj := document.NewRect(0, 0, 10, 10, "#000")
	first := e.AddObject(obj)
	second := e.AddObject(obj)
	blank := obj
	blank.ID = ""
	third := e.AddObject(blank)

	if first != obj.ID {
		t.Fatalf("expected first add to keep id %q, got %q", obj.ID, first)
	}
	if first == second || second == third || first == third {
		t.Fatalf("ids not unique: %s %s %s", first, second, third)
	}
	if !e.Modified() {
		t.Fatal("add should mark the document modified")
	}
	if e.HistoryLen() != 0 {
		t.Fatal("add must not push history")
	}
}

func TestAddObjectRejectsGuides(t *testing.T) {
	e := newTestEngine()
	if id := e.AddObject(document.Object{Kind: document.KindGuide}); id != "" {
		t.Fatalf("guide accepted as %q", id)
	}
	if len(e.Objects()) != 0 {
		t.Fatal("document changed")
	}
}

func TestSelectionClearedOnRemove(t *testing.T) {
	e := newTestEngine()
	id := e.AddObject(document.NewRect(0, 0, 10, 10, "#000"))
	other := e.AddObject(document.NewRect(0, 0, 10, 10, "#000"))

	if !e.Select(id) {
		t.Fatal("select failed")
	}
	if !e.RemoveObject(id) {
		t.Fatal("remove failed")
	}
	if sel, ok := e.Selection(); ok {
		t.Fatalf("selection still points at %q", sel)
	}
	if e.State().Selection != "" {
		t.Fatal("state exposes a dangling selection")
	}
	for _, cmd := range e.Surface().(*DrawList).Frame().Commands {
		if cmd.Active {
			t.Fatalf("surface still marks %s active", cmd.ObjectID)
		}
	}

	e.Select(other)
	e.RemoveObject(id)
	if sel, _ := e.Selection(); sel != other {
		t.Fatal("removing another object cleared the selection")
	}
}

func TestRemoveMissingIsNoop(t *testing.T) {
	e := newTestEngine()
	e.AddObject(document.NewRect(0, 0, 10, 10, "#000"))
	e.MarkSaved()
	if e.RemoveObject("obj_missing") {
		t.Fatal("expected no-op")
	}
	if e.Modified() || len(e.Objects()) != 1 {
		t.Fatal("no-op removal changed state")
	}
}

func TestReorderNoop(t *testing.T) {
	e := newTestEngine()
	for i := 0; i < 5; i++ {
		e.AddObject(document.NewRect(float64(i), 0, 10, 10, "#000"))
	}
	before, _ := e.Snapshot()
	layersBefore := e.Layers()

	for _, idx := range [][2]int{{3, 3}, {-1, 2}, {0, 5}, {7, 1}} {
		if e.ReorderObject(idx[0], idx[1]) {
			t.Fatalf("ReorderObject(%d, %d) should be rejected", idx[0], idx[1])
		}
	}

	after, _ := e.Snapshot()
	if !bytes.Equal(before, after) {
		t.Fatal("document changed")
	}
	if !reflect.DeepEqual(layersBefore, e.Layers()) {
		t.Fatal("layers changed")
	}
}

func TestReorderLayer(t *testing.T) {
	e := newTestEngine()
	a := e.AddObject(document.NewRect(0, 0, 10, 10, "#000"))
	b := e.AddObject(document.NewRect(0, 0, 10, 10, "#000"))
	c := e.AddObject(document.NewRect(0, 0, 10, 10, "#000"))

	// layers: [c, b, a]; drag the top layer to the bottom
	if !e.ReorderLayer(0, 2) {
		t.Fatal("reorder layer rejected")
	}
	assertOrder(t, e, c, a, b)

	if e.ReorderLayer(0, 3) {
		t.Fatal("out of range layer index accepted")
	}
	if !e.BringToFront(c) {
		t.Fatal("bring to front failed")
	}
	assertOrder(t, e, a, b, c)
	if !e.SendToBack(b) {
		t.Fatal("send to back failed")
	}
	assertOrder(t, e, b, a, c)
	if e.BringToFront("missing") {
		t.Fatal("missing id accepted")
	}
}

func TestUpdateObjectProperties(t *testing.T) {
	e := newTestEngine()
	id := e.AddObject(document.NewText("Title", 0, 0, 24, "#000"))

	if e.UpdateObjectProperties("", document.Props{Fill: document.Ptr("#fff")}) {
		t.Fatal("update with no selection should be a no-op")
	}

	e.Select(id)
	if !e.UpdateObjectProperties("", document.Props{Content: document.Ptr("New title"), Fill: document.Ptr("#fff")}) {
		t.Fatal("update of selection failed")
	}
	obj, _ := e.Object(id)
	if obj.Text.Content != "New title" || obj.Style.Fill != "#fff" {
		t.Fatalf("props not applied: %+v %+v", obj.Text, obj.Style)
	}
	if name := e.Layers()[0].Name; name != "New title" {
		t.Fatalf("layer name not recomputed: %q", name)
	}

	e.UpdateObjectProperties(id, document.Props{Fill: document.Ptr("#123")})
	obj, _ = e.Object(id)
	if obj.Style.Fill != "#123" {
		t.Fatal("last write should win")
	}
}

func TestVisibilityAndLock(t *testing.T) {
	e := newTestEngine()
	id := e.AddObject(document.NewRect(0, 0, 10, 10, "#000"))
	e.Select(id)

	e.SetVisible(id, false)
	if e.Layers()[0].Visible {
		t.Fatal("layer still visible")
	}
	if len(e.Surface().(*DrawList).Frame().Commands) != 0 {
		t.Fatal("hidden object painted")
	}

	e.SetLocked(id, true)
	if !e.Layers()[0].Locked {
		t.Fatal("layer not locked")
	}
	if _, ok := e.Selection(); ok {
		t.Fatal("locking should deselect")
	}
	if e.Select(id) {
		t.Fatal("locked object selected")
	}
	if e.MoveObject(id, 50, 50) {
		t.Fatal("locked object moved")
	}
}

func TestMoveObjectSnaps(t *testing.T) {
	e := newTestEngine(WithGridSize(20))
	id := e.AddObject(document.NewRect(0, 0, 33, 33, "#000"))

	e.MoveObject(id, 27, 51)
	obj, _ := e.Object(id)
	if obj.Transform.X != 27 || obj.Transform.Y != 51 {
		t.Fatalf("unexpected unsnapped position (%v, %v)", obj.Transform.X, obj.Transform.Y)
	}

	e.SetSnap(true)
	e.MoveObject(id, 27, 51)
	obj, _ = e.Object(id)
	if obj.Transform.X != 20 || obj.Transform.Y != 60 {
		t.Fatalf("unexpected snapped position (%v, %v)", obj.Transform.X, obj.Transform.Y)
	}
	if obj.Transform.Width != 33 {
		t.Fatal("size must not snap")
	}
	if e.HistoryLen() != 0 {
		t.Fatal("moves must not push history")
	}
}

func TestHistoryLinearity(t *testing.T) {
	e := newTestEngine()
	a := e.AddObject(document.NewRect(0, 0, 10, 10, "#000"))
	e.Commit() // A
	b := e.AddObject(document.NewRect(0, 0, 10, 10, "#000"))
	e.Commit() // B
	e.Undo()
	c := e.AddObject(document.NewCircle(0, 0, 5, "#000"))
	e.Commit() // C

	if e.CanRedo() {
		t.Fatal("redo should be unavailable")
	}
	if e.HistoryLen() != 2 || e.HistoryIndex() != 1 {
		t.Fatalf("expected [A, C] at index 1, got len=%d index=%d", e.HistoryLen(), e.HistoryIndex())
	}
	e.Undo()
	assertOrder(t, e, a)
	e.Redo()
	assertOrder(t, e, a, c)
	if _, ok := e.Object(b); ok {
		t.Fatal("discarded entry resurfaced")
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	e := newTestEngine()
	e.AddObject(document.NewRect(0, 0, 10, 10, "#000"))
	e.Commit()
	id := e.AddObject(document.NewText("hi", 5, 5, 12, "#000"))
	e.UpdateObjectProperties(id, document.Props{Angle: document.Ptr(45.0)})
	e.Commit()

	before := e.Document()
	e.Undo()
	e.Redo()
	after := e.Document()

	if !reflect.DeepEqual(before.Objects, after.Objects) || before.Canvas != after.Canvas {
		t.Fatal("undo/redo round trip changed the document")
	}
}

func TestUndoClearsSelectionAndKeepsView(t *testing.T) {
	e := newTestEngine()
	id := e.AddObject(document.NewRect(0, 0, 10, 10, "#000"))
	e.Commit()
	e.AddObject(document.NewRect(0, 0, 10, 10, "#000"))
	e.Commit()

	e.Select(id)
	e.SetZoom(2)
	e.SetGridEnabled(true)
	e.Undo()

	if _, ok := e.Selection(); ok {
		t.Fatal("undo should clear the selection")
	}
	if e.Zoom() != 2 || !e.View().GridEnabled {
		t.Fatalf("view settings reverted: %+v", e.View())
	}
}

func TestUndoRedoExhaustion(t *testing.T) {
	e := newTestEngine()
	if e.Undo() || e.Redo() {
		t.Fatal("empty history should be a no-op")
	}
	e.Commit()
	if e.CanUndo() || e.Undo() {
		t.Fatal("single entry cannot be undone")
	}
}

func TestBoundedHistory(t *testing.T) {
	e := newTestEngine(WithHistoryLimit(50))
	id := e.AddObject(document.NewRect(0, 0, 10, 10, "#000"))
	for i := 0; i < 60; i++ {
		e.MoveObject(id, float64(i+1), 0)
		if err := e.Commit(); err != nil {
			t.Fatal(err)
		}
		if e.HistoryLen() > 50 {
			t.Fatalf("history length %d exceeds cap", e.HistoryLen())
		}
		if idx := e.HistoryIndex(); idx < 0 || idx >= e.HistoryLen() {
			t.Fatalf("history index %d invalid", idx)
		}
	}
	for e.Undo() {
	}
	obj, _ := e.Object(id)
	if obj.Transform.X != 11 {
		t.Fatalf("oldest retained entry should be x=11, got %v", obj.Transform.X)
	}
}

func TestZoomClamp(t *testing.T) {
	e := newTestEngine()
	tests := []struct{ in, want float64 }{
		{1.5, 1.5},
		{0.01, DefaultZoomMin},
		{50, DefaultZoomMax},
		{math.NaN(), DefaultZoomMax},
	}
	for _, tt := range tests {
		if got := e.SetZoom(tt.in); got != tt.want {
			t.Fatalf("SetZoom(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	custom := newTestEngine(WithZoomRange(0.5, 2))
	if got := custom.SetZoom(3); got != 2 {
		t.Fatalf("custom range not applied: %v", got)
	}
}

func TestGridGuides(t *testing.T) {
	e := newTestEngine(WithCanvasSize(100, 60), WithGridSize(20))
	e.AddObject(document.NewRect(0, 0, 10, 10, "#000"))

	e.SetGridEnabled(true)
	if len(e.Guides()) != 0 {
		t.Fatal("guides generated while hidden")
	}
	e.SetGridVisible(true)
	// 4 vertical (20..80) + 2 horizontal (20, 40)
	if n := len(e.Guides()); n != 6 {
		t.Fatalf("expected 6 guides, got %d", n)
	}
	if len(e.Layers()) != 1 {
		t.Fatal("guides leaked into layers")
	}
	data, _ := e.Snapshot()
	if bytes.Contains(data, []byte(document.KindGuide)) {
		t.Fatal("guides leaked into snapshot")
	}
	if n := len(e.Surface().(*DrawList).Frame().Commands); n != 7 {
		t.Fatalf("expected 7 draw commands, got %d", n)
	}

	if e.SetGridSize(0) {
		t.Fatal("zero grid size accepted")
	}
	e.SetGridSize(50)
	if n := len(e.Guides()); n != 2 {
		t.Fatalf("expected 2 guides, got %d", n)
	}
	e.SetGridEnabled(false)
	if len(e.Guides()) != 0 {
		t.Fatal("guides kept after disabling grid")
	}
}

func TestSelectAt(t *testing.T) {
	e := newTestEngine()
	bottom := e.AddObject(document.NewRect(0, 0, 100, 100, "#000"))
	top := e.AddObject(document.NewRect(50, 50, 100, 100, "#fff"))
	e.AddObject(document.NewBackground("#eee", 1080, 1080))

	if got := e.SelectAt(75, 75); got != top {
		t.Fatalf("expected top object, got %q", got)
	}
	if got := e.SelectAt(10, 10); got != bottom {
		t.Fatalf("expected bottom object, got %q", got)
	}
	if b := e.SelectionBounds(); b.X != 0 || b.Width != 100 {
		t.Fatalf("unexpected bounds %+v", b)
	}
	if got := e.SelectAt(500, 500); got != "" {
		t.Fatalf("locked background selected: %q", got)
	}
	if _, ok := e.Selection(); ok {
		t.Fatal("click on empty area should clear the selection")
	}
}

func TestLoadIsAllOrNothing(t *testing.T) {
	e := newTestEngine()
	id := e.AddObject(document.NewRect(0, 0, 10, 10, "#000"))
	e.Commit()

	bad := []byte(`{"canvas":{"width":10,"height":10},"objects":[{"id":"a","kind":"rect"},{"id":"a","kind":"rect"}]}`)
	if err := e.Load(bad); err == nil {
		t.Fatal("expected load error")
	}
	if got := e.Objects(); len(got) != 1 || got[0] != id {
		t.Fatalf("document changed on failed load: %v", got)
	}

	sample, err := document.Marshal(document.NewSampleDocument())
	if err != nil {
		t.Fatal(err)
	}
	e.Select(id)
	if err := e.Load(sample); err != nil {
		t.Fatal(err)
	}
	if len(e.Objects()) != 5 || e.HistoryLen() != 1 || e.CanUndo() {
		t.Fatalf("unexpected state after load: %d objects, history %d", len(e.Objects()), e.HistoryLen())
	}
	if _, ok := e.Selection(); ok {
		t.Fatal("load should clear the selection")
	}
	if e.Modified() {
		t.Fatal("freshly loaded document is not modified")
	}
}

func TestCorruptHistoryEntryKeepsDocument(t *testing.T) {
	e := newTestEngine()
	e.AddObject(document.NewRect(0, 0, 10, 10, "#000"))
	e.history.Push([]byte(`{"canvas":{"width":0}}`))
	e.AddObject(document.NewRect(0, 0, 10, 10, "#000"))
	e.Commit()

	before := e.Objects()
	if e.Undo() {
		t.Fatal("undo into a corrupt entry should fail")
	}
	if !reflect.DeepEqual(before, e.Objects()) {
		t.Fatal("document changed by failed undo")
	}
	if e.HistoryIndex() != 1 {
		t.Fatalf("history cursor moved: %d", e.HistoryIndex())
	}
}

func TestStateSummary(t *testing.T) {
	e := newTestEngine()
	for i := 0; i < 3; i++ {
		e.AddObject(document.NewRect(0, 0, 10, 10, fmt.Sprintf("#%d%d%d", i, i, i)))
		e.Commit()
	}
	e.Undo()
	s := e.State()
	if !s.CanUndo || !s.CanRedo || s.HistoryLength != 3 || s.HistoryIndex != 1 {
		t.Fatalf("unexpected state %+v", s)
	}
	if len(s.Layers) != 2 {
		t.Fatalf("expected 2 layers, got %d", len(s.Layers))
	}
}

func TestNonFiniteInputRejected(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)

	e := newTestEngine()
	id := e.AddObject(document.NewRect(10, 10, 20, 20, "#000"))
	if err := e.Commit(); err != nil {
		t.Fatal(err)
	}

	if e.MoveObject(id, nan, 5) || e.MoveObject(id, 5, inf) {
		t.Fatal("non-finite move accepted")
	}
	if e.SetGridSize(inf) || e.SetGridSize(nan) {
		t.Fatal("non-finite grid size accepted")
	}
	if e.SetCanvasSize(inf, 100) || e.SetCanvasSize(100, nan) {
		t.Fatal("non-finite canvas size accepted")
	}

	e.UpdateObjectProperties(id, document.Props{
		Width:   document.Ptr(inf),
		X:       document.Ptr(nan),
		Opacity: document.Ptr(nan),
		Fill:    document.Ptr("#fff"),
	})
	obj, _ := e.Object(id)
	if obj.Transform.Width != 20 || obj.Transform.X != 10 || obj.Style.Opacity != 1 || obj.Style.Fill != "#fff" {
		t.Fatalf("unexpected object after update %+v", obj)
	}

	bad := []document.Object{document.NewRect(0, 0, 10, 10, "#000"), document.NewRect(0, 0, 10, 10, "#000"), document.NewLine(0, 0, 10, 10, "#000", 1)}
	bad[0].Style.Opacity = nan
	bad[1].Transform.Angle = inf
	bad[2].Shape.Points[2] = nan
	for i, obj := range bad {
		if got := e.AddObject(obj); got != "" {
			t.Fatalf("object %d with non-finite values accepted as %s", i, got)
		}
	}

	if err := e.Commit(); err != nil {
		t.Fatalf("commit after rejected input: %v", err)
	}
	data, err := e.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := document.Unmarshal(data); err != nil {
		t.Fatalf("snapshot does not round trip: %v", err)
	}
}
