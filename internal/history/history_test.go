package history

import (
	"errors"
	"fmt"
	"testing"
)

func snapshots(s *Stack) []string {
	var out []string
	for _, e := range s.Entries() {
		out = append(out, string(e.Snapshot))
	}
	return out
}

func apply(into *string) RestoreFunc {
	return func(e Entry) error {
		*into = string(e.Snapshot)
		return nil
	}
}

func TestEmptyStack(t *testing.T) {
	s := New(0)
	if s.Limit() != DefaultLimit {
		t.Fatalf("expected default limit, got %d", s.Limit())
	}
	if s.CanUndo() || s.CanRedo() {
		t.Fatal("empty stack should not undo or redo")
	}
	if s.Index() != -1 {
		t.Fatalf("expected index -1, got %d", s.Index())
	}
	var live string
	if ok, err := s.Undo(apply(&live)); ok || err != nil {
		t.Fatalf("undo on empty stack: %v %v", ok, err)
	}
	if err := s.Push(nil); !errors.Is(err, ErrEmptySnapshot) {
		t.Fatalf("expected ErrEmptySnapshot, got %v", err)
	}
}

func TestCommitDiscardsFuture(t *testing.T) {
	s := New(10)
	var live string

	s.Push([]byte("A"))
	s.Push([]byte("B"))
	if ok, _ := s.Undo(apply(&live)); !ok || live != "A" {
		t.Fatalf("undo: ok=%v live=%q", ok, live)
	}
	if !s.CanRedo() {
		t.Fatal("expected redo after undo")
	}

	s.Push([]byte("C"))
	if s.CanRedo() {
		t.Fatal("redo should be unavailable after a new commit")
	}
	if got := snapshots(s); len(got) != 2 || got[0] != "A" || got[1] != "C" {
		t.Fatalf("expected [A C], got %v", got)
	}
	if s.Index() != 1 {
		t.Fatalf("expected index 1, got %d", s.Index())
	}
}

func TestUndoRedoBoundaries(t *testing.T) {
	s := New(10)
	var live string
	s.Push([]byte("A"))
	s.Push([]byte("B"))
	s.Push([]byte("C"))

	if ok, _ := s.Redo(apply(&live)); ok {
		t.Fatal("redo at tail should be a no-op")
	}
	s.Undo(apply(&live))
	s.Undo(apply(&live))
	if live != "A" || s.CanUndo() {
		t.Fatalf("expected to rest at A, live=%q canUndo=%v", live, s.CanUndo())
	}
	if ok, _ := s.Undo(apply(&live)); ok {
		t.Fatal("undo at head should be a no-op")
	}
	s.Redo(apply(&live))
	if live != "B" {
		t.Fatalf("expected B after redo, got %q", live)
	}
}

func TestFailedRestoreKeepsCursor(t *testing.T) {
	s := New(10)
	s.Push([]byte("A"))
	s.Push([]byte("B"))

	boom := errors.New("corrupt")
	ok, err := s.Undo(func(Entry) error { return boom })
	if ok || !errors.Is(err, boom) {
		t.Fatalf("expected failed undo, got ok=%v err=%v", ok, err)
	}
	if s.Index() != 1 {
		t.Fatalf("cursor moved on failed restore: %d", s.Index())
	}
}

func TestBoundedHistory(t *testing.T) {
	s := New(50)
	for i := 0; i < 60; i++ {
		s.Push([]byte(fmt.Sprintf("S%d", i)))
		if s.Len() > 50 {
			t.Fatalf("length %d exceeds limit", s.Len())
		}
		if s.Index() < 0 || s.Index() >= s.Len() {
			t.Fatalf("index %d out of range [0, %d)", s.Index(), s.Len())
		}
	}
	got := snapshots(s)
	if got[0] != "S10" || got[len(got)-1] != "S59" {
		t.Fatalf("unexpected retained range %s..%s", got[0], got[len(got)-1])
	}
}

func TestEvictionWithCursorInMiddle(t *testing.T) {
	s := New(3)
	var live string
	s.Push([]byte("A"))
	s.Push([]byte("B"))
	s.Push([]byte("C"))
	s.Undo(apply(&live))
	s.Push([]byte("D"))
	s.Push([]byte("E"))

	if got := snapshots(s); len(got) != 3 || got[0] != "B" || got[2] != "E" {
		t.Fatalf("unexpected entries %v", got)
	}
	if s.Index() != 2 {
		t.Fatalf("expected index 2, got %d", s.Index())
	}
}

func TestReset(t *testing.T) {
	s := New(10)
	s.Push([]byte("A"))
	s.Push([]byte("B"))

	s.Reset([]byte("base"))
	if s.Len() != 1 || s.Index() != 0 || s.CanUndo() {
		t.Fatalf("unexpected state after reset: len=%d index=%d", s.Len(), s.Index())
	}
	cur, ok := s.Current()
	if !ok || string(cur.Snapshot) != "base" {
		t.Fatalf("unexpected current entry %q", cur.Snapshot)
	}

	s.Reset(nil)
	if s.Len() != 0 || s.Index() != -1 {
		t.Fatal("expected empty stack")
	}
}
