package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 256 * 1024
)

// Session is one websocket connection editing its own document.
type Session struct {
	hub    *Hub
	conn   *websocket.Conn
	editor *Editor

	mu     sync.Mutex // guards send and closed
	send   chan []byte
	closed bool

	ID       string
	UserID   string
	ClientID string
}

func NewSession(hub *Hub, conn *websocket.Conn, editor *Editor, id, userID, clientID string) *Session {
	return &Session{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		editor:   editor,
		ID:       id,
		UserID:   userID,
		ClientID: clientID,
	}
}

// ReadPump applies incoming messages in arrival order. It blocks until the
// connection closes and must run on one goroutine per session.
func (s *Session) ReadPump(ctx context.Context) {
	defer func() {
		s.hub.Unregister(s)
		s.conn.Close(websocket.StatusNormalClosure, "")
	}()

	s.conn.SetReadLimit(maxMsgSize)
	s.Greet()

	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "session", s.ID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "session", s.ID)
			s.Send(errorMessage(0, ErrInvalidPayload))
			continue
		}

		s.Send(s.editor.Handle(ctx, &msg))
	}
}

// Greet sends the welcome message followed by the initial state.
func (s *Session) Greet() {
	welcome, _ := json.Marshal(WelcomePayload{SessionID: s.ID, UserID: s.UserID})
	s.Send(&Message{Type: TypeWelcome, Payload: welcome})
	s.Send(s.editor.StateMessage())
}

func (s *Session) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-s.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "session", s.ID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (s *Session) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.send <- data:
	default:
		slog.Warn("session send buffer full, dropping message", "session", s.ID)
	}
}

func (s *Session) closeSend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.send)
	}
}
