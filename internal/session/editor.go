package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inamate/studio/internal/document"
	"github.com/inamate/studio/internal/engine"
	"github.com/inamate/studio/internal/template"
)

var (
	ErrUnknownType     = errors.New("unknown message type")
	ErrInvalidPayload  = errors.New("invalid payload")
	ErrNoTemplateStore = errors.New("templates are not available")
)

// TemplateStore is the part of the template service an editing session needs.
type TemplateStore interface {
	Get(ctx context.Context, id, userID string) (*template.Template, error)
	Save(ctx context.Context, p template.SaveParams) (*template.Template, error)
}

// Editor applies client messages to one engine. It is driven from a single
// goroutine and is not safe for concurrent use.
type Editor struct {
	engine    *engine.Engine
	surface   *engine.DrawList
	templates TemplateStore
	userID    string
	logger    *slog.Logger
}

// NewEditor creates an editor over a fresh engine. The initial document is
// committed as the first history entry so the first edit can be undone.
// templates may be nil, in which case template messages fail.
func NewEditor(userID string, templates TemplateStore, logger *slog.Logger, opts ...engine.Option) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	surface := engine.NewDrawList()
	opts = append(opts, engine.WithSurface(surface), engine.WithLogger(logger))

	ed := &Editor{
		engine:    engine.New(opts...),
		surface:   surface,
		templates: templates,
		userID:    userID,
		logger:    logger,
	}
	if err := ed.engine.Commit(); err != nil {
		logger.Error("commit initial document", "error", err)
	}
	return ed
}

func (ed *Editor) Engine() *engine.Engine {
	return ed.engine
}

// Handle applies one message and returns the response to send back.
func (ed *Editor) Handle(ctx context.Context, msg *Message) *Message {
	result, err := ed.apply(ctx, msg)
	if err != nil {
		ed.logger.Warn("message rejected", "type", msg.Type, "seq", msg.Seq, "error", err)
		return errorMessage(msg.Seq, err)
	}
	return ed.stateMessage(msg.Seq, result)
}

// StateMessage returns the current state without applying anything.
func (ed *Editor) StateMessage() *Message {
	return ed.stateMessage(0, result{})
}

type result struct {
	changed  bool
	objectID string
}

// discrete wraps an edit that completes in one message. Changes are committed
// to history right away.
func (ed *Editor) discrete(changed bool) (result, error) {
	if changed {
		if err := ed.engine.Commit(); err != nil {
			return result{}, err
		}
	}
	return result{changed: changed}, nil
}

func (ed *Editor) apply(ctx context.Context, msg *Message) (result, error) {
	e := ed.engine

	switch msg.Type {
	case TypeObjectAdd:
		// Omitted attributes keep the defaults instead of zero values.
		p := ObjectAddPayload{Object: document.Defaults()}
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		id := e.AddObject(p.Object)
		if id == "" {
			return result{}, fmt.Errorf("%w: object kind %q", ErrInvalidPayload, p.Object.Kind)
		}
		if p.Select {
			e.Select(id)
		}
		r, err := ed.discrete(true)
		r.objectID = id
		return r, err

	case TypeObjectRemove:
		var p ObjectRefPayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		return ed.discrete(e.RemoveObject(p.ID))

	case TypeObjectUpdate:
		var p ObjectUpdatePayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		props, err := document.ParseProps(p.Props)
		if err != nil {
			return result{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		return ed.discrete(e.UpdateObjectProperties(p.ID, props))

	case TypeObjectMove:
		var p ObjectMovePayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		// Drags send many moves; the client commits once with history.commit.
		return result{changed: e.MoveObject(p.ID, p.X, p.Y)}, nil

	case TypeObjectReorder:
		var p ReorderPayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		return ed.discrete(e.ReorderObject(p.From, p.To))

	case TypeLayerReorder:
		var p ReorderPayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		return ed.discrete(e.ReorderLayer(p.From, p.To))

	case TypeObjectFront, TypeObjectBack:
		var p ObjectRefPayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		if msg.Type == TypeObjectFront {
			return ed.discrete(e.BringToFront(p.ID))
		}
		return ed.discrete(e.SendToBack(p.ID))

	case TypeObjectVisibility:
		var p VisibilityPayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		return ed.discrete(e.SetVisible(p.ID, p.Visible))

	case TypeObjectLocked:
		var p LockedPayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		return ed.discrete(e.SetLocked(p.ID, p.Locked))

	case TypeSelectionSet:
		var p ObjectRefPayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		return result{changed: e.Select(p.ID)}, nil

	case TypeSelectionHit:
		var p PointPayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		before, _ := e.Selection()
		id := e.SelectAt(p.X, p.Y)
		return result{changed: id != before, objectID: id}, nil

	case TypeGridUpdate:
		var p GridPayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		if p.Size != nil && !e.SetGridSize(*p.Size) {
			return result{}, fmt.Errorf("%w: grid size %v", ErrInvalidPayload, *p.Size)
		}
		if p.Enabled != nil {
			e.SetGridEnabled(*p.Enabled)
		}
		if p.Visible != nil {
			e.SetGridVisible(*p.Visible)
		}
		return result{changed: true}, nil

	case TypeSnapSet:
		var p SnapPayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		e.SetSnap(p.Enabled)
		return result{changed: true}, nil

	case TypeZoomSet:
		var p ZoomPayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		before := e.Zoom()
		return result{changed: e.SetZoom(p.Zoom) != before}, nil

	case TypeCanvasResize:
		var p CanvasPayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		return ed.discrete(e.SetCanvasSize(p.Width, p.Height))

	case TypeHistoryCommit:
		if err := e.Commit(); err != nil {
			return result{}, err
		}
		return result{changed: true}, nil

	case TypeHistoryUndo:
		return result{changed: e.Undo()}, nil

	case TypeHistoryRedo:
		return result{changed: e.Redo()}, nil

	case TypeTemplateLoad:
		var p TemplateLoadPayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		return ed.loadTemplate(ctx, p)

	case TypeTemplateSave:
		var p TemplateSavePayload
		if err := decode(msg.Payload, &p); err != nil {
			return result{}, err
		}
		return ed.saveTemplate(ctx, p)

	default:
		return result{}, fmt.Errorf("%w: %q", ErrUnknownType, msg.Type)
	}
}

func (ed *Editor) loadTemplate(ctx context.Context, p TemplateLoadPayload) (result, error) {
	if ed.templates == nil {
		return result{}, ErrNoTemplateStore
	}
	t, err := ed.templates.Get(ctx, p.ID, ed.userID)
	if err != nil {
		return result{}, fmt.Errorf("load template %s: %w", p.ID, err)
	}
	if err := ed.engine.Load(t.Document); err != nil {
		return result{}, err
	}
	ed.logger.Info("template loaded", "template", t.ID, "user", ed.userID)
	return result{changed: true, objectID: t.ID}, nil
}

func (ed *Editor) saveTemplate(ctx context.Context, p TemplateSavePayload) (result, error) {
	if ed.templates == nil {
		return result{}, ErrNoTemplateStore
	}
	data, err := ed.engine.Snapshot()
	if err != nil {
		return result{}, err
	}
	t, err := ed.templates.Save(ctx, template.SaveParams{
		ID:       p.ID,
		OwnerID:  ed.userID,
		Name:     p.Name,
		Public:   p.Public,
		Document: data,
	})
	if err != nil {
		return result{}, fmt.Errorf("save template: %w", err)
	}
	ed.engine.MarkSaved()
	ed.logger.Info("template saved", "template", t.ID, "user", ed.userID)
	return result{changed: true, objectID: t.ID}, nil
}

func (ed *Editor) stateMessage(seq int64, r result) *Message {
	frame := ed.surface.Frame()
	payload, err := json.Marshal(StatePayload{
		Changed:  r.changed,
		ObjectID: r.objectID,
		State:    ed.engine.State(),
		Frame:    &frame,
	})
	if err != nil {
		return errorMessage(seq, fmt.Errorf("marshal state: %w", err))
	}
	return &Message{Type: TypeState, Seq: seq, Payload: payload}
}

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing payload", ErrInvalidPayload)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return nil
}

func errorMessage(seq int64, err error) *Message {
	payload, _ := json.Marshal(ErrorPayload{Message: err.Error()})
	return &Message{Type: TypeError, Seq: seq, Payload: payload}
}
