package editor

import (
	"context"

	"github.com/zjrosen/lexedit/internal/diff"
	"github.com/zjrosen/lexedit/internal/keys"
	"github.com/zjrosen/lexedit/internal/log"
)

// InsertText inserts s at the cursor and moves the cursor past it.
func (d *Document) InsertText(ctx context.Context, s string) {
	d.replaceAtCursor(ctx, 0, s, diff.Len(s))
}

// InsertPair inserts open and closing at the cursor and leaves the cursor
// between them.
func (d *Document) InsertPair(ctx context.Context, open, closing string) {
	d.replaceAtCursor(ctx, 0, open+closing, diff.Len(open))
}

// DeleteBackward removes the character before the cursor. It reports false
// at the start of the text.
func (d *Document) DeleteBackward(ctx context.Context) bool {
	if d.cursor == 0 {
		return false
	}
	d.cursor--
	d.replaceAtCursor(ctx, 1, "", 0)
	return true
}

// replaceAtCursor replaces n characters at the cursor with s and advances
// the cursor by advance.
func (d *Document) replaceAtCursor(ctx context.Context, n int, s string, advance int) {
	removed := diff.Slice(d.text, d.cursor, d.cursor+n)
	p := diff.Patch{Position: d.cursor, Removed: removed, Inserted: s}
	d.SetText(ctx, p.Apply(d.text), d.cursor+advance)
}

// Dispatch applies an EditCommand. It reports false for PassThrough and for
// commands that changed nothing.
func (d *Document) Dispatch(ctx context.Context, cmd keys.EditCommand) bool {
	log.Debug(log.CatEditor, "dispatch", "id", d.id, "command", keys.Name(cmd))

	switch c := cmd.(type) {
	case keys.InsertText:
		if c.Text == "" {
			return false
		}
		d.InsertText(ctx, c.Text)
		return true
	case keys.InsertBracketPair:
		d.InsertPair(ctx, c.Open, c.Close)
		return true
	case keys.DeleteBackward:
		return d.DeleteBackward(ctx)
	case keys.Zoom:
		before := d.zoom
		return d.ZoomBy(c.Delta) != before
	case keys.Undo:
		return d.Undo(ctx)
	case keys.Redo:
		return d.Redo(ctx)
	default:
		return false
	}
}
