package engine

import (
	"encoding/json"

	"github.com/inamate/studio/internal/document"
)

// PrimitiveRef is the surface's handle for a painted object. The engine only uses
// it to correlate primitives with document objects.
type PrimitiveRef string

// Surface is the rendering collaborator. The engine realizes the whole scene on it
// after every mutation; the surface never writes back into the document.
type Surface interface {
	Clear()
	CreatePrimitive(kind document.ObjectKind, obj document.Object) PrimitiveRef
	// SetActivePrimitive marks the selected primitive; an empty ref clears it.
	SetActivePrimitive(ref PrimitiveRef)
	Render()
}

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op           string             `json:"op"`                     // Object kind: "rect", "circle", "text", "image", "guide", ...
	ObjectID     string             `json:"objectId,omitempty"`     // For hit correlation
	Transform    []float64          `json:"transform,omitempty"`    // [a, b, c, d, e, f] affine matrix
	Width        float64            `json:"width"`                  // Local box width
	Height       float64            `json:"height"`                 // Local box height
	Fill         string             `json:"fill,omitempty"`         // Fill color
	Stroke       string             `json:"stroke,omitempty"`       // Stroke color
	StrokeWidth  float64            `json:"strokeWidth,omitempty"`  // Stroke width
	Opacity      float64            `json:"opacity"`                // Global alpha
	CornerRadius float64            `json:"cornerRadius,omitempty"` // Rounded rect radius
	Points       []float64          `json:"points,omitempty"`       // Line points, local space
	Text         *document.TextData `json:"text,omitempty"`         // Text payload
	ImageURL     string             `json:"imageUrl,omitempty"`     // Image source
	Active       bool               `json:"active,omitempty"`       // Selected primitive
}

// Frame is one rendered draw command buffer.
type Frame struct {
	Version  int           `json:"version"`
	Commands []DrawCommand `json:"commands"`
}

// DrawList is a Surface that compiles the scene into draw commands in painter's
// order (back to front). Render publishes the pending commands as a new Frame.
type DrawList struct {
	pending []DrawCommand
	active  PrimitiveRef
	frame   Frame
}

func NewDrawList() *DrawList {
	return &DrawList{}
}

func (d *DrawList) Clear() {
	d.pending = d.pending[:0]
	d.active = ""
}

func (d *DrawList) CreatePrimitive(kind document.ObjectKind, obj document.Object) PrimitiveRef {
	cmd := DrawCommand{
		Op:          string(kind),
		ObjectID:    obj.ID,
		Transform:   ObjectMatrix(obj.Transform).ToSlice(),
		Width:       obj.Transform.Width,
		Height:      obj.Transform.Height,
		Fill:        obj.Style.Fill,
		Stroke:      obj.Style.Stroke,
		StrokeWidth: obj.Style.StrokeWidth,
		Opacity:     obj.Style.Opacity,
	}
	if obj.Shape != nil {
		cmd.CornerRadius = obj.Shape.CornerRadius
		cmd.Points = append([]float64(nil), obj.Shape.Points...)
	}
	if obj.Text != nil {
		t := *obj.Text
		cmd.Text = &t
	}
	if obj.Image != nil {
		cmd.ImageURL = obj.Image.URL
	}
	d.pending = append(d.pending, cmd)
	return PrimitiveRef(obj.ID)
}

func (d *DrawList) SetActivePrimitive(ref PrimitiveRef) {
	d.active = ref
}

func (d *DrawList) Render() {
	commands := make([]DrawCommand, len(d.pending))
	copy(commands, d.pending)
	for i := range commands {
		commands[i].Active = d.active != "" && PrimitiveRef(commands[i].ObjectID) == d.active
	}
	d.frame = Frame{
		Version:  d.frame.Version + 1,
		Commands: commands,
	}
}

// Frame returns the last rendered frame.
func (d *DrawList) Frame() Frame {
	return d.frame
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		commands = []DrawCommand{}
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
