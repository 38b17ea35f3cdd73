//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inamate/studio/internal/document"
	"github.com/inamate/studio/internal/engine"
)

var (
	eng     *engine.Engine
	surface *engine.DrawList
)

func main() {
	surface = engine.NewDrawList()
	eng = engine.New(engine.WithSurface(surface))

	// Create the engine API object
	studioEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	studioEngine.Set("loadDocument", js.FuncOf(loadDocument))
	studioEngine.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	studioEngine.Set("addObject", js.FuncOf(addObject))
	studioEngine.Set("removeObject", js.FuncOf(removeObject))
	studioEngine.Set("updateObject", js.FuncOf(updateObject))
	studioEngine.Set("moveObject", js.FuncOf(moveObject))
	studioEngine.Set("reorderLayer", js.FuncOf(reorderLayer))
	studioEngine.Set("setVisible", js.FuncOf(setVisible))
	studioEngine.Set("setLocked", js.FuncOf(setLocked))
	studioEngine.Set("setSelection", js.FuncOf(setSelection))
	studioEngine.Set("selectAt", js.FuncOf(selectAt))
	studioEngine.Set("setGrid", js.FuncOf(setGrid))
	studioEngine.Set("setSnap", js.FuncOf(setSnap))
	studioEngine.Set("setZoom", js.FuncOf(setZoom))
	studioEngine.Set("commit", js.FuncOf(commit))
	studioEngine.Set("undo", js.FuncOf(undo))
	studioEngine.Set("redo", js.FuncOf(redo))

	// --- Queries (frontend ← engine) ---
	studioEngine.Set("render", js.FuncOf(render))
	studioEngine.Set("getState", js.FuncOf(getState))
	studioEngine.Set("getDocument", js.FuncOf(getDocument))
	studioEngine.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))

	// Register on global scope
	js.Global().Set("studioEngine", studioEngine)

	// Signal that WASM is ready
	js.Global().Set("studioWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorResult(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": msg})
}

func toJSON(v any) interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResult(err.Error())
	}
	return js.ValueOf(string(data))
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("missing document JSON")
	}
	if err := eng.Load([]byte(args[0].String())); err != nil {
		return errorResult(err.Error())
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	data, err := document.Marshal(document.NewSampleDocument())
	if err != nil {
		return errorResult(err.Error())
	}
	if err := eng.Load(data); err != nil {
		return errorResult(err.Error())
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// addObject takes an object as JSON and returns the assigned id, or "" when the
// object was rejected. Omitted attributes take the document defaults.
func addObject(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("")
	}
	obj := document.Defaults()
	if err := json.Unmarshal([]byte(args[0].String()), &obj); err != nil {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.AddObject(obj))
}

func removeObject(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.RemoveObject(args[0].String()))
}

// updateObject takes an object id (empty for the selection) and a JSON property subset.
func updateObject(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(false)
	}
	props, err := document.ParseProps(json.RawMessage(args[1].String()))
	if err != nil {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.UpdateObjectProperties(args[0].String(), props))
}

func moveObject(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.MoveObject(args[0].String(), args[1].Float(), args[2].Float()))
}

func reorderLayer(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.ReorderLayer(args[0].Int(), args[1].Int()))
}

func setVisible(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.SetVisible(args[0].String(), args[1].Bool()))
}

func setLocked(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.SetLocked(args[0].String(), args[1].Bool()))
}

func setSelection(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		eng.ClearSelection()
		return js.ValueOf(true)
	}
	return js.ValueOf(eng.Select(args[0].String()))
}

func selectAt(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.SelectAt(args[0].Float(), args[1].Float()))
}

// setGrid takes (enabled, visible, size).
func setGrid(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.ValueOf(false)
	}
	if !eng.SetGridSize(args[2].Float()) {
		return js.ValueOf(false)
	}
	eng.SetGridEnabled(args[0].Bool())
	eng.SetGridVisible(args[1].Bool())
	return js.ValueOf(true)
}

func setSnap(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.SetSnap(args[0].Bool())
	return nil
}

func setZoom(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(eng.Zoom())
	}
	return js.ValueOf(eng.SetZoom(args[0].Float()))
}

func commit(this js.Value, args []js.Value) interface{} {
	if err := eng.Commit(); err != nil {
		return errorResult(err.Error())
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func undo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Undo())
}

func redo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Redo())
}

// --- Query Handlers ---

// render returns the last frame's draw commands as JSON.
func render(this js.Value, args []js.Value) interface{} {
	out, err := engine.DrawCommandsToJSON(surface.Frame().Commands)
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(out)
}

func getState(this js.Value, args []js.Value) interface{} {
	return toJSON(eng.State())
}

func getDocument(this js.Value, args []js.Value) interface{} {
	data, err := eng.Snapshot()
	if err != nil {
		return errorResult(err.Error())
	}
	return js.ValueOf(string(data))
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	return toJSON(eng.SelectionBounds())
}
