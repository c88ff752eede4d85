// Package editor ties the scanner, the re-lex coordinator and the change
// history to one open document.
package editor

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/lexedit/internal/diff"
	"github.com/zjrosen/lexedit/internal/history"
	"github.com/zjrosen/lexedit/internal/lexer"
	"github.com/zjrosen/lexedit/internal/linestore"
	"github.com/zjrosen/lexedit/internal/log"
	"github.com/zjrosen/lexedit/internal/pubsub"
	"github.com/zjrosen/lexedit/internal/relex"
	"github.com/zjrosen/lexedit/internal/tracing"
)

// HistoryChange is published after a checkpoint, undo, redo or reload.
type HistoryChange struct {
	DocumentID string
	State      history.State
	Position   int
	Len        int
	Cursor     int
}

// Document is one open source file. It is owned by a single edit stream and
// is not safe for concurrent use.
type Document struct {
	id       string
	name     string
	text     string
	lines    []string
	cursor   int
	baseline string

	zoom             int
	zoomMin, zoomMax int

	history     *history.History
	coordinator *relex.Coordinator
	tracer      trace.Tracer

	relexed *pubsub.Broker[relex.Update]
	changes *pubsub.Broker[HistoryChange]
}

// Open creates a document named name holding text and scans all of it. The
// cursor starts at the end of the text.
func Open(name, text string, opts Options) *Document {
	d := &Document{
		id:       uuid.NewString(),
		name:     name,
		text:     text,
		lines:    splitLines(text),
		cursor:   diff.Len(text),
		baseline: text,
		zoom:     opts.ZoomDefault,
		zoomMin:  opts.ZoomMin,
		zoomMax:  opts.ZoomMax,
		history:  history.New(text, opts.MaxHistory),
		tracer:   opts.Tracer,
		relexed:  pubsub.NewBroker[relex.Update](),
		changes:  pubsub.NewBroker[HistoryChange](),
	}
	if d.tracer == nil {
		d.tracer = noop.NewTracerProvider().Tracer("noop")
	}
	d.zoom = d.clampZoom(d.zoom)

	relexOpts := []relex.Option{relex.WithBroker(d.relexed)}
	if opts.ScanCache != nil {
		relexOpts = append(relexOpts, relex.WithCache(opts.ScanCache, opts.CacheTTL))
	}
	if opts.Language.Keywords == nil {
		opts.Language = lexer.CPP()
	}
	d.coordinator = relex.New(d, lexer.New(opts.Language), relexOpts...)

	log.Info(log.CatEditor, "document opened", "id", d.id, "name", name, "lines", len(d.lines))
	return d
}

func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

// ID returns the document's unique id.
func (d *Document) ID() string { return d.id }

// Name returns the name the document was opened with.
func (d *Document) Name() string { return d.name }

// Text returns the current text.
func (d *Document) Text() string { return d.text }

// Cursor returns the cursor as a character offset into Text. A byte that is
// not valid UTF-8 counts as one character.
func (d *Document) Cursor() int { return d.cursor }

// LineCount returns the number of lines. An empty document has one line.
func (d *Document) LineCount() int { return len(d.lines) }

// Line returns line i without its newline, or "" when out of range.
func (d *Document) Line(i int) string {
	if i < 0 || i >= len(d.lines) {
		return ""
	}
	return d.lines[i]
}

// TokensForLine returns the tokens of line i.
func (d *Document) TokensForLine(i int) ([]lexer.Token, bool) {
	return d.coordinator.Tokens(i)
}

// StoredLine returns the scan state of line i as kept by the token store.
func (d *Document) StoredLine(i int) (linestore.Line, bool) {
	return d.coordinator.Store().Line(i)
}

// History returns the change history. Callers must not mutate it.
func (d *Document) History() *history.History { return d.history }

// Zoom returns the zoom level in percent.
func (d *Document) Zoom() int { return d.zoom }

// IsModified reports whether the text differs from the last saved text.
func (d *Document) IsModified() bool { return d.text != d.baseline }

// MarkSaved records the current text as saved.
func (d *Document) MarkSaved() { d.baseline = d.text }

// SetCursor moves the cursor, clamped to the text.
func (d *Document) SetCursor(pos int) {
	d.cursor = min(max(pos, 0), diff.Len(d.text))
}

// Subscribe returns re-lex updates until ctx is done or the document closes.
func (d *Document) Subscribe(ctx context.Context) <-chan pubsub.Event[relex.Update] {
	return d.relexed.Subscribe(ctx)
}

// SubscribeHistory returns history and reload notifications.
func (d *Document) SubscribeHistory(ctx context.Context) <-chan pubsub.Event[HistoryChange] {
	return d.changes.Subscribe(ctx)
}

// Close releases subscribers.
func (d *Document) Close() {
	d.relexed.Close()
	d.changes.Close()
}

// SetText replaces the text and rescans the lines the edit touched. Setting
// the same text again only moves the cursor and returns a zero Update.
func (d *Document) SetText(ctx context.Context, text string, cursor int) relex.Update {
	_, span := tracing.Start(ctx, d.tracer, tracing.SpanSetText, d.id)
	defer tracing.End(span, nil)

	if text == d.text {
		d.SetCursor(cursor)
		span.AddEvent(tracing.EventNoChange)
		return relex.Update{}
	}

	patch := diff.Compute(d.text, text)
	first, last := patch.LineSpan(text)

	d.text = text
	d.lines = splitLines(text)
	d.SetCursor(cursor)

	u := d.coordinator.OnEdit(first, last, len(d.lines))
	span.SetAttributes(
		attribute.Int(tracing.AttrLineCount, len(d.lines)),
		attribute.Int(tracing.AttrRelexStart, u.Start),
		attribute.Int(tracing.AttrRelexEnd, u.End),
		attribute.Bool(tracing.AttrRelexFull, u.FullRescan),
	)
	if u.End > last {
		span.AddEvent(tracing.EventCarryOver, trace.WithAttributes(attribute.Int("lines", u.End-last)))
	}
	return u
}

// Checkpoint records the text written since the previous checkpoint as one
// history entry. It reports false when nothing changed.
func (d *Document) Checkpoint(ctx context.Context) bool {
	_, span := tracing.Start(ctx, d.tracer, tracing.SpanCheckpoint, d.id)
	defer tracing.End(span, nil)

	recorded := d.history.WriteChangeAt(d.text, d.cursor)
	span.SetAttributes(
		attribute.Bool(tracing.AttrChanged, recorded),
		attribute.Int(tracing.AttrHistoryLen, d.history.Len()),
	)
	if recorded {
		span.AddEvent(tracing.EventPatchStored)
		d.publishHistory(pubsub.CheckpointEvent)
	}
	return recorded
}

// Undo checkpoints pending text, steps the history back and loads the
// resulting text with the cursor from before the undone change. It reports
// false when there was nothing to undo.
func (d *Document) Undo(ctx context.Context) bool {
	ctx, span := tracing.Start(ctx, d.tracer, tracing.SpanUndo, d.id)
	defer tracing.End(span, nil)

	d.Checkpoint(ctx)
	if !d.history.CanUndo() {
		span.AddEvent(tracing.EventNoChange)
		return false
	}
	text := d.history.Undo()
	d.SetText(ctx, text, d.history.Cursor())
	span.SetAttributes(attribute.Int(tracing.AttrHistoryPos, d.history.Position()))
	d.publishHistory(pubsub.UndoEvent)
	return true
}

// Redo re-applies the next undone change. It reports false when there was
// nothing to redo.
func (d *Document) Redo(ctx context.Context) bool {
	ctx, span := tracing.Start(ctx, d.tracer, tracing.SpanRedo, d.id)
	defer tracing.End(span, nil)

	d.Checkpoint(ctx)
	if !d.history.CanRedo() {
		span.AddEvent(tracing.EventNoChange)
		return false
	}
	text := d.history.Redo()
	d.SetText(ctx, text, d.history.Cursor())
	span.SetAttributes(attribute.Int(tracing.AttrHistoryPos, d.history.Position()))
	d.publishHistory(pubsub.RedoEvent)
	return true
}

// Reload replaces the text with content read from disk. The history is
// kept, so the reload becomes undoable after the next checkpoint.
func (d *Document) Reload(ctx context.Context, text string) relex.Update {
	ctx, span := tracing.Start(ctx, d.tracer, tracing.SpanReload, d.id)
	defer tracing.End(span, nil)

	u := d.SetText(ctx, text, d.cursor)
	d.baseline = text
	d.publishHistory(pubsub.ReloadedEvent)
	return u
}

// SetZoom sets the zoom level clamped to the configured bounds.
func (d *Document) SetZoom(level int) int {
	d.zoom = d.clampZoom(level)
	return d.zoom
}

// ZoomBy changes the zoom level by delta within the configured bounds.
func (d *Document) ZoomBy(delta int) int {
	return d.SetZoom(d.zoom + delta)
}

func (d *Document) clampZoom(level int) int {
	if d.zoomMax < d.zoomMin {
		return level
	}
	return min(max(level, d.zoomMin), d.zoomMax)
}

func (d *Document) publishHistory(t pubsub.EventType) {
	d.changes.Publish(t, HistoryChange{
		DocumentID: d.id,
		State:      d.history.State(),
		Position:   d.history.Position(),
		Len:        d.history.Len(),
		Cursor:     d.cursor,
	})
}
