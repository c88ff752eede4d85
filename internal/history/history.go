// Package history records document edits as patches and moves backward and
// forward through them.
//
// The position works like an undo index:
//   - -1 means nothing is applied beyond the initial text
//   - 0 to Len()-1 points at the most recently applied patch
//   - Undo reverts entries[position] and decrements
//   - Redo increments and re-applies entries[position]
//
// Recording a change after undoing discards every patch past the position,
// so history is linear.
package history

import (
	"github.com/zjrosen/lexedit/internal/diff"
	"github.com/zjrosen/lexedit/internal/log"
)

// DefaultMaxEntries bounds a history created with a non-positive maximum.
const DefaultMaxEntries = 100

// State summarizes where the position sits in the history.
type State int

const (
	Empty  State = iota // no patches recorded
	AtHead              // last patch applied, nothing to redo
	Mid                 // both undo and redo available
	AtTail              // everything undone, nothing to undo
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case AtHead:
		return "head"
	case Mid:
		return "mid"
	case AtTail:
		return "tail"
	default:
		return "unknown"
	}
}

// History is a bounded, linear undo/redo history over full-text snapshots
// compressed into patches. It is not safe for concurrent use.
type History struct {
	entries  []diff.Patch
	position int
	max      int
	text     string
	cursor   int
}

// New creates a history whose current text is initial. maxEntries <= 0
// selects DefaultMaxEntries.
func New(initial string, maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{
		position: -1,
		max:      maxEntries,
		text:     initial,
	}
}

// WriteChange records the edit turning the current text into text. It
// reports false, leaving the history untouched, when text is unchanged.
func (h *History) WriteChange(text string) bool {
	patch := diff.Compute(h.text, text)
	if patch.IsEmpty() {
		return false
	}
	return h.push(patch, text)
}

// WriteChangeAt is WriteChange with the caller's cursor recorded as the
// position to restore when the change is redone.
func (h *History) WriteChangeAt(text string, cursor int) bool {
	patch := diff.Compute(h.text, text)
	if patch.IsEmpty() {
		return false
	}
	patch.CursorAfter = cursor
	return h.push(patch, text)
}

func (h *History) push(patch diff.Patch, text string) bool {
	h.entries = append(h.entries[:h.position+1], patch)
	if len(h.entries) > h.max {
		evicted := len(h.entries) - h.max
		h.entries = append(h.entries[:0], h.entries[evicted:]...)
		log.Debug(log.CatHistory, "evicted oldest patches", "count", evicted)
	}
	h.position = len(h.entries) - 1
	h.text = text
	h.cursor = patch.CursorAfter
	log.Debug(log.CatHistory, "recorded change",
		"position", patch.Position,
		"removed", len(patch.Removed),
		"inserted", len(patch.Inserted),
		"entries", len(h.entries))
	return true
}

// Undo reverts the patch at the position and returns the resulting text.
// With nothing to undo the current text is returned unchanged.
func (h *History) Undo() string {
	if h.position < 0 {
		return h.text
	}
	patch := h.entries[h.position]
	h.text = patch.Revert(h.text)
	h.cursor = patch.CursorBefore
	h.position--
	return h.text
}

// Redo re-applies the patch after the position and returns the resulting
// text. With nothing to redo the current text is returned unchanged.
func (h *History) Redo() string {
	if h.position >= len(h.entries)-1 {
		return h.text
	}
	h.position++
	patch := h.entries[h.position]
	h.text = patch.Apply(h.text)
	h.cursor = patch.CursorAfter
	return h.text
}

// Cursor returns the cursor offset associated with the current text: the
// recorded cursor of the last write or redo, or the cursor before the last
// undone patch.
func (h *History) Cursor() int {
	return h.cursor
}

// Text returns the current text.
func (h *History) Text() string {
	return h.text
}

// Len returns the number of recorded patches.
func (h *History) Len() int {
	return len(h.entries)
}

// Position returns the index of the last applied patch, -1 when none is.
func (h *History) Position() int {
	return h.position
}

// Max returns the entry bound.
func (h *History) Max() int {
	return h.max
}

// State classifies the position.
func (h *History) State() State {
	switch {
	case len(h.entries) == 0:
		return Empty
	case h.position < 0:
		return AtTail
	case h.position == len(h.entries)-1:
		return AtHead
	default:
		return Mid
	}
}

// CanUndo returns true if there is a patch to revert.
func (h *History) CanUndo() bool {
	return h.position >= 0
}

// CanRedo returns true if there is a patch to re-apply.
func (h *History) CanRedo() bool {
	return h.position < len(h.entries)-1
}

// Entries returns a copy of the recorded patches, oldest first.
func (h *History) Entries() []diff.Patch {
	out := make([]diff.Patch, len(h.entries))
	copy(out, h.entries)
	return out
}

// Reset drops every patch and makes text the new initial text.
func (h *History) Reset(text string) {
	h.entries = h.entries[:0]
	h.position = -1
	h.text = text
	h.cursor = 0
}
