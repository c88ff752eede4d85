// Package diff computes the single contiguous replacement that turns one
// version of a document into the next.
//
// Positions are character offsets, where a character is what
// utf8.DecodeRuneInString reads: a rune, or a single byte that is not valid
// UTF-8. Invalid bytes keep their value through Compute, Apply and Revert.
// The engine is not a general LCS diff: two disjoint edits are reported as
// one patch spanning both of them, which is what a single-cursor editor
// produces between checkpoints anyway.
package diff

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Patch replaces Removed with Inserted at Position.
//
// CursorBefore and CursorAfter are the cursor offsets to restore when the
// patch is reverted and re-applied.
type Patch struct {
	Position     int    `json:"position"`
	Removed      string `json:"removed"`
	Inserted     string `json:"inserted"`
	CursorBefore int    `json:"cursor_before"`
	CursorAfter  int    `json:"cursor_after"`
}

var dmp = diffmatchpatch.New()

// Compute returns the patch turning previous into next. Identical inputs
// yield an empty patch (see IsEmpty).
func Compute(previous, next string) Patch {
	if previous == next {
		return Patch{}
	}

	prev := chars(previous)
	cur := chars(next)
	shortest := min(len(prev), len(cur))

	var prefix, suffix int
	if utf8.ValidString(previous) && utf8.ValidString(next) {
		prefix = dmp.DiffCommonPrefix(previous, next)
		suffix = dmp.DiffCommonSuffix(previous, next)
	} else {
		prefix, suffix = commonAffixes(prev, cur)
	}
	// The suffix may reuse characters already counted in the prefix, e.g.
	// "aa" -> "aaa". Clamp it so the two regions never overlap.
	if prefix+suffix > shortest {
		suffix = shortest - prefix
	}

	removed := strings.Join(prev[prefix:len(prev)-suffix], "")
	inserted := strings.Join(cur[prefix:len(cur)-suffix], "")
	return Patch{
		Position:     prefix,
		Removed:      removed,
		Inserted:     inserted,
		CursorBefore: prefix + Len(removed),
		CursorAfter:  prefix + Len(inserted),
	}
}

// IsEmpty reports whether the patch describes no change.
func (p Patch) IsEmpty() bool {
	return p.Removed == "" && p.Inserted == ""
}

// Apply replaces [Position, Position+len(Removed)) in text with Inserted.
func (p Patch) Apply(text string) string {
	return splice(text, p.Position, Len(p.Removed), p.Inserted)
}

// Revert replaces [Position, Position+len(Inserted)) in text with Removed.
func (p Patch) Revert(text string) string {
	return splice(text, p.Position, Len(p.Inserted), p.Removed)
}

// LineSpan returns the first and last line of next touched by the inserted
// text, where next is the text after the patch was applied.
func (p Patch) LineSpan(next string) (first, last int) {
	first = strings.Count(next[:offset(next, p.Position)], "\n")
	return first, first + strings.Count(p.Inserted, "\n")
}

// LineDelta returns the change in line count caused by the patch.
func (p Patch) LineDelta() int {
	return strings.Count(p.Inserted, "\n") - strings.Count(p.Removed, "\n")
}

// Pretty renders the removed and inserted text as a colored diff.
func (p Patch) Pretty() string {
	var diffs []diffmatchpatch.Diff
	if p.Removed != "" {
		diffs = append(diffs, diffmatchpatch.Diff{Type: diffmatchpatch.DiffDelete, Text: p.Removed})
	}
	if p.Inserted != "" {
		diffs = append(diffs, diffmatchpatch.Diff{Type: diffmatchpatch.DiffInsert, Text: p.Inserted})
	}
	return dmp.DiffPrettyText(diffs)
}

// Len returns the number of characters in s.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// Slice returns characters [from, to) of s with their original bytes.
// Bounds are clamped to s.
func Slice(s string, from, to int) string {
	start := offset(s, from)
	return s[start : start+offset(s[start:], to-max(from, 0))]
}

// splice replaces n characters of text at pos with repl. Out of range
// positions are clamped to the text.
func splice(text string, pos, n int, repl string) string {
	start := offset(text, pos)
	end := start + offset(text[start:], n)

	var b strings.Builder
	b.Grow(len(text) + len(repl))
	b.WriteString(text[:start])
	b.WriteString(repl)
	b.WriteString(text[end:])
	return b.String()
}

// offset returns the byte offset of character pos in s, clamped to s.
func offset(s string, pos int) int {
	i := 0
	for ; pos > 0 && i < len(s); pos-- {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i
}

// chars splits s into characters, each holding its original bytes.
func chars(s string) []string {
	out := make([]string, 0, len(s))
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		out = append(out, s[i:i+size])
		i += size
	}
	return out
}

// commonAffixes counts the characters a and b share at their start and end.
// Characters compare by bytes, so distinct invalid bytes never match.
func commonAffixes(a, b []string) (prefix, suffix int) {
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	for suffix < len(a) && suffix < len(b) && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}
	return prefix, suffix
}
