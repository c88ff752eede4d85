package keys

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func mustKey(t *testing.T, s string) tea.KeyMsg {
	t.Helper()
	msg, err := ParseKey(s)
	require.NoError(t, err)
	return msg
}

func TestParseKey_RoundTripsString(t *testing.T) {
	for _, name := range []string{
		"ctrl+z", "ctrl+y", "ctrl+up", "ctrl+down", "alt+=", "alt+-",
		"enter", "alt+enter", "backspace", "tab", "up", "esc", "{", "[", "a", "é",
	} {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, name, mustKey(t, name).String())
		})
	}
}

func TestParseKey_Space(t *testing.T) {
	require.Equal(t, tea.KeySpace, mustKey(t, "space").Type)
}

func TestParseKey_Unknown(t *testing.T) {
	for _, name := range []string{"", "hyper+q", "ab", "alt+"} {
		_, err := ParseKey(name)
		require.ErrorIs(t, err, ErrUnknownKey, "key %q", name)
	}
}

func TestClassify(t *testing.T) {
	km := DefaultKeyMap()
	tests := []struct {
		key      string
		expected EditCommand
	}{
		{key: "ctrl+z", expected: Undo{}},
		{key: "ctrl+y", expected: Redo{}},
		{key: "ctrl+up", expected: Zoom{Delta: 1}},
		{key: "alt+=", expected: Zoom{Delta: 1}},
		{key: "ctrl+down", expected: Zoom{Delta: -1}},
		{key: "alt+-", expected: Zoom{Delta: -1}},
		{key: "{", expected: InsertBracketPair{Open: "{", Close: "}"}},
		{key: "[", expected: InsertBracketPair{Open: "[", Close: "]"}},
		{key: "(", expected: InsertText{Text: "("}},
		{key: "enter", expected: InsertText{Text: "\n"}},
		{key: "alt+enter", expected: InsertText{Text: "\n"}},
		{key: "backspace", expected: DeleteBackward{}},
		{key: "space", expected: InsertText{Text: " "}},
		{key: "tab", expected: InsertText{Text: "\t"}},
		{key: "x", expected: InsertText{Text: "x"}},
		{key: "alt+x", expected: PassThrough{}},
		{key: "up", expected: PassThrough{}},
		{key: "ctrl+s", expected: PassThrough{}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			require.Equal(t, tt.expected, Classify(km, mustKey(t, tt.key)))
		})
	}
}

func TestClassify_Paste(t *testing.T) {
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("int x;"), Paste: true}
	require.Equal(t, InsertText{Text: "int x;"}, Classify(DefaultKeyMap(), msg))
}

func TestNewKeyMap_ConfiguredPairs(t *testing.T) {
	km := NewKeyMap(map[string]string{"(": ")", "<<": ">>", "{": ""})
	require.Equal(t, map[string]string{"(": ")"}, km.Pairs)
	require.Equal(t, InsertBracketPair{Open: "(", Close: ")"}, Classify(km, mustKey(t, "(")))
	require.Equal(t, InsertText{Text: "{"}, Classify(km, mustKey(t, "{")))
}

func TestNewKeyMap_NoPairsDisablesBinding(t *testing.T) {
	km := NewKeyMap(nil)
	require.False(t, km.Pair.Enabled())
	require.Equal(t, InsertText{Text: "{"}, Classify(km, mustKey(t, "{")))
}

func TestKeyMap_Help(t *testing.T) {
	km := DefaultKeyMap()
	require.Len(t, km.ShortHelp(), 4)
	for _, group := range km.FullHelp() {
		for _, b := range group {
			require.NotEmpty(t, b.Help().Desc)
		}
	}
	require.Equal(t, "[ {", km.Pair.Help().Key)
}

func TestName(t *testing.T) {
	require.Equal(t, "undo", Name(Undo{}))
	require.Equal(t, "zoom -1", Name(Zoom{Delta: -1}))
	require.Equal(t, `insert "\n"`, Name(InsertText{Text: "\n"}))
	require.Equal(t, "pair []", Name(InsertBracketPair{Open: "[", Close: "]"}))
	require.Equal(t, "pass through", Name(PassThrough{}))
}
