// Package history implements a linear, bounded undo/redo stack of whole-document
// snapshots. Entries are never patched: undo and redo hand a stored snapshot back
// to the caller, which replaces its live document with it.
package history

import (
	"errors"
	"time"
)

// DefaultLimit is the number of entries kept before the oldest are evicted.
const DefaultLimit = 50

var ErrEmptySnapshot = errors.New("empty snapshot")

// Entry is an immutable serialized document. Snapshot must not be modified after
// it has been pushed.
type Entry struct {
	Snapshot  []byte
	Timestamp time.Time
}

// RestoreFunc replaces the live document with the entry's snapshot. It must either
// fully apply the snapshot or return an error and leave the live document untouched.
type RestoreFunc func(Entry) error

// Stack is a cursor over a bounded sequence of entries.
// Invariant: 0 <= index < len(entries) whenever entries is non-empty, -1 otherwise.
type Stack struct {
	entries []Entry
	index   int
	limit   int
	now     func() time.Time
}

// New creates an empty stack. A non-positive limit selects DefaultLimit.
func New(limit int) *Stack {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack{
		index: -1,
		limit: limit,
		now:   time.Now,
	}
}

// Push records a new snapshot after the cursor. Entries past the cursor are
// discarded, and the oldest entries are evicted once the limit is exceeded.
func (s *Stack) Push(snapshot []byte) error {
	if len(snapshot) == 0 {
		return ErrEmptySnapshot
	}

	s.entries = append(s.entries[:s.index+1], Entry{
		Snapshot:  snapshot,
		Timestamp: s.now(),
	})
	s.index = len(s.entries) - 1

	if over := len(s.entries) - s.limit; over > 0 {
		kept := make([]Entry, len(s.entries)-over)
		copy(kept, s.entries[over:])
		s.entries = kept
		s.index -= over
	}
	return nil
}

// Undo steps the cursor back one entry. The cursor only moves when restore succeeds.
// It reports whether a step was taken.
func (s *Stack) Undo(restore RestoreFunc) (bool, error) {
	if !s.CanUndo() {
		return false, nil
	}
	if err := restore(s.entries[s.index-1]); err != nil {
		return false, err
	}
	s.index--
	return true, nil
}

// Redo steps the cursor forward one entry. The cursor only moves when restore succeeds.
func (s *Stack) Redo(restore RestoreFunc) (bool, error) {
	if !s.CanRedo() {
		return false, nil
	}
	if err := restore(s.entries[s.index+1]); err != nil {
		return false, err
	}
	s.index++
	return true, nil
}

func (s *Stack) CanUndo() bool {
	return s.index > 0
}

func (s *Stack) CanRedo() bool {
	return s.index >= 0 && s.index < len(s.entries)-1
}

func (s *Stack) Len() int {
	return len(s.entries)
}

// Index returns the cursor, or -1 for an empty stack.
func (s *Stack) Index() int {
	return s.index
}

func (s *Stack) Limit() int {
	return s.limit
}

// Current returns the entry under the cursor.
func (s *Stack) Current() (Entry, bool) {
	if s.index < 0 {
		return Entry{}, false
	}
	return s.entries[s.index], true
}

// Entries returns a copy of the stored entries, oldest first.
func (s *Stack) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Reset drops every entry. A non-empty snapshot becomes the single baseline entry.
func (s *Stack) Reset(snapshot []byte) {
	s.entries = nil
	s.index = -1
	if len(snapshot) > 0 {
		_ = s.Push(snapshot)
	}
}
