// Package linestore keeps the per-line token lists of a document, indexed by
// line number.
package linestore

import (
	"errors"
	"fmt"

	"github.com/zjrosen/lexedit/internal/lexer"
)

// ErrIndexOutOfRange is returned when a mutation addresses a line that does
// not exist.
var ErrIndexOutOfRange = errors.New("line index out of range")

// Line is the scan result stored for one document line.
type Line struct {
	Tokens     []lexer.Token
	StartState lexer.State // state the line was scanned from
	EndState   lexer.State // state the next line must be scanned from
}

// FromResult builds a Line from a scan result and the state it started in.
func FromResult(start lexer.State, res lexer.Result) Line {
	return Line{Tokens: res.Tokens, StartState: start, EndState: res.EndState}
}

// Store is an ordered sequence of Lines. It is owned by a single document
// and is not safe for concurrent use.
type Store struct {
	lines []Line
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Len returns the number of lines held.
func (s *Store) Len() int {
	return len(s.lines)
}

// Line returns the entry at index i.
func (s *Store) Line(i int) (Line, bool) {
	if i < 0 || i >= len(s.lines) {
		return Line{}, false
	}
	return s.lines[i], true
}

// Tokens returns the tokens of line i, or nil and false when i is out of range.
func (s *Store) Tokens(i int) ([]lexer.Token, bool) {
	if i < 0 || i >= len(s.lines) {
		return nil, false
	}
	return s.lines[i].Tokens, true
}

// EndState returns the state line i finished in. Lines before the first one
// are treated as ending in StateStart.
func (s *Store) EndState(i int) lexer.State {
	if i < 0 || i >= len(s.lines) {
		return lexer.StateStart
	}
	return s.lines[i].EndState
}

// Insert places lines before index i, shifting later entries down.
// i may equal Len to append.
func (s *Store) Insert(i int, lines ...Line) error {
	if i < 0 || i > len(s.lines) {
		return fmt.Errorf("insert at %d of %d: %w", i, len(s.lines), ErrIndexOutOfRange)
	}
	if len(lines) == 0 {
		return nil
	}
	s.lines = append(s.lines, lines...)
	copy(s.lines[i+len(lines):], s.lines[i:])
	copy(s.lines[i:], lines)
	return nil
}

// Remove deletes n entries starting at index i.
func (s *Store) Remove(i, n int) error {
	if n < 0 || i < 0 || i+n > len(s.lines) {
		return fmt.Errorf("remove %d at %d of %d: %w", n, i, len(s.lines), ErrIndexOutOfRange)
	}
	s.lines = append(s.lines[:i], s.lines[i+n:]...)
	return nil
}

// Replace overwrites the entry at index i.
func (s *Store) Replace(i int, line Line) error {
	if i < 0 || i >= len(s.lines) {
		return fmt.Errorf("replace at %d of %d: %w", i, len(s.lines), ErrIndexOutOfRange)
	}
	s.lines[i] = line
	return nil
}

// Reset replaces the whole content of the store.
func (s *Store) Reset(lines []Line) {
	s.lines = append(s.lines[:0], lines...)
}
