// Package keys maps key presses to editing commands.
package keys

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrUnknownKey is returned by ParseKey for names it does not recognize.
var ErrUnknownKey = errors.New("unknown key")

// EditCommand is the result of classifying a key press. It is one of
// PassThrough, InsertText, InsertBracketPair, DeleteBackward, Zoom, Undo or
// Redo.
type EditCommand interface {
	isEditCommand()
}

// PassThrough leaves the key to the surrounding editor.
type PassThrough struct{}

// InsertText inserts Text at the cursor.
type InsertText struct {
	Text string
}

// InsertBracketPair inserts Open and Close and leaves the cursor between them.
type InsertBracketPair struct {
	Open  string
	Close string
}

// DeleteBackward removes the character before the cursor.
type DeleteBackward struct{}

// Zoom changes the zoom level by Delta.
type Zoom struct {
	Delta int
}

// Undo reverts the last recorded change.
type Undo struct{}

// Redo re-applies the last undone change.
type Redo struct{}

func (PassThrough) isEditCommand()       {}
func (InsertText) isEditCommand()        {}
func (InsertBracketPair) isEditCommand() {}
func (DeleteBackward) isEditCommand()    {}
func (Zoom) isEditCommand()              {}
func (Undo) isEditCommand()              {}
func (Redo) isEditCommand()              {}

// DefaultAutoPairs are the brackets closed automatically.
var DefaultAutoPairs = map[string]string{
	"{": "}",
	"[": "]",
}

// KeyMap holds the editing key bindings.
type KeyMap struct {
	Undo      key.Binding
	Redo      key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	Newline   key.Binding
	Backspace key.Binding
	Pair      key.Binding

	// Pairs maps each opening bracket bound by Pair to its closing bracket.
	Pairs map[string]string
}

// DefaultKeyMap returns the default bindings with DefaultAutoPairs.
func DefaultKeyMap() KeyMap {
	return NewKeyMap(DefaultAutoPairs)
}

// NewKeyMap returns the default bindings closing the given pairs. Entries
// whose opening side is not a single character are ignored.
func NewKeyMap(pairs map[string]string) KeyMap {
	valid := make(map[string]string, len(pairs))
	for open, closing := range pairs {
		if len([]rune(open)) == 1 && closing != "" {
			valid[open] = closing
		}
	}
	opens := slices.Sorted(maps.Keys(valid))

	pair := key.NewBinding(
		key.WithKeys(opens...),
		key.WithHelp(strings.Join(opens, " "), "insert bracket pair"),
	)
	if len(opens) == 0 {
		pair.SetEnabled(false)
	}

	return KeyMap{
		Undo: key.NewBinding(
			key.WithKeys("ctrl+z"),
			key.WithHelp("ctrl+z", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "redo"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("ctrl+up", "alt+="),
			key.WithHelp("ctrl+↑/alt+=", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("ctrl+down", "alt+-"),
			key.WithHelp("ctrl+↓/alt+-", "zoom out"),
		),
		Newline: key.NewBinding(
			key.WithKeys("enter", "alt+enter"),
			key.WithHelp("enter", "new line"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "delete backward"),
		),
		Pair:  pair,
		Pairs: valid,
	}
}

// ShortHelp returns the bindings shown in compact help.
func (km KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Undo, km.Redo, km.ZoomIn, km.ZoomOut}
}

// FullHelp returns every binding grouped for display.
func (km KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{km.Undo, km.Redo},
		{km.ZoomIn, km.ZoomOut},
		{km.Newline, km.Backspace, km.Pair},
	}
}

// Classify turns a key press into an EditCommand.
func Classify(km KeyMap, msg tea.KeyMsg) EditCommand {
	switch {
	case key.Matches(msg, km.Undo):
		return Undo{}
	case key.Matches(msg, km.Redo):
		return Redo{}
	case key.Matches(msg, km.ZoomIn):
		return Zoom{Delta: 1}
	case key.Matches(msg, km.ZoomOut):
		return Zoom{Delta: -1}
	case key.Matches(msg, km.Newline):
		// Modified enter inserts the same plain newline.
		return InsertText{Text: "\n"}
	case key.Matches(msg, km.Backspace):
		return DeleteBackward{}
	case key.Matches(msg, km.Pair):
		open := msg.String()
		return InsertBracketPair{Open: open, Close: km.Pairs[open]}
	}

	if msg.Alt || msg.Paste {
		if msg.Paste && msg.Type == tea.KeyRunes {
			return InsertText{Text: string(msg.Runes)}
		}
		return PassThrough{}
	}
	switch msg.Type {
	case tea.KeyRunes:
		return InsertText{Text: string(msg.Runes)}
	case tea.KeySpace:
		return InsertText{Text: " "}
	case tea.KeyTab:
		return InsertText{Text: "\t"}
	}
	return PassThrough{}
}

// keyTypes maps bubbletea key names such as "ctrl+z" or "up" to key types.
var keyTypes = func() map[string]tea.KeyType {
	m := map[string]tea.KeyType{"space": tea.KeySpace}
	for t := tea.KeyType(-256); t < 128; t++ {
		if t == tea.KeyRunes {
			continue
		}
		if name := (tea.Key{Type: t}).String(); name != "" && name != " " {
			if _, taken := m[name]; !taken {
				m[name] = t
			}
		}
	}
	return m
}()

// ParseKey turns a key name as printed by tea.KeyMsg.String, for example
// "ctrl+z", "alt+=", "enter" or "{", back into a key message.
func ParseKey(s string) (tea.KeyMsg, error) {
	name := s
	alt := false
	if rest, ok := strings.CutPrefix(name, "alt+"); ok && rest != "" {
		name, alt = rest, true
	}
	if t, ok := keyTypes[name]; ok {
		return tea.KeyMsg{Type: t, Alt: alt}, nil
	}
	if runes := []rune(name); len(runes) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: runes, Alt: alt}, nil
	}
	return tea.KeyMsg{}, fmt.Errorf("%q: %w", s, ErrUnknownKey)
}

// Name returns a readable name for cmd, used in logs and script output.
func Name(cmd EditCommand) string {
	switch c := cmd.(type) {
	case InsertText:
		return fmt.Sprintf("insert %q", c.Text)
	case InsertBracketPair:
		return fmt.Sprintf("pair %s%s", c.Open, c.Close)
	case DeleteBackward:
		return "delete backward"
	case Zoom:
		return fmt.Sprintf("zoom %+d", c.Delta)
	case Undo:
		return "undo"
	case Redo:
		return "redo"
	default:
		return "pass through"
	}
}
