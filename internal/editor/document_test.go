package editor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"pgregory.net/rapid"

	"github.com/zjrosen/lexedit/internal/config"
	"github.com/zjrosen/lexedit/internal/history"
	"github.com/zjrosen/lexedit/internal/keys"
	"github.com/zjrosen/lexedit/internal/lexer"
	"github.com/zjrosen/lexedit/internal/pubsub"
	"github.com/zjrosen/lexedit/internal/relex"
	"github.com/zjrosen/lexedit/internal/tracing"
)

func open(t *testing.T, text string) *Document {
	t.Helper()
	d := Open("test.cpp", text, DefaultOptions())
	t.Cleanup(d.Close)
	return d
}

func categories(t *testing.T, d *Document, line int) []lexer.Category {
	t.Helper()
	toks, ok := d.TokensForLine(line)
	require.True(t, ok, "line %d", line)
	out := make([]lexer.Category, len(toks))
	for i, tok := range toks {
		out[i] = tok.Category
	}
	return out
}

// requireInSync checks every stored line against a fresh scan of the text.
func requireInSync(t require.TestingT, d *Document) {
	scanner := lexer.New(lexer.CPP())
	require.Equal(t, d.LineCount(), d.coordinator.LineCount())
	state := lexer.StateStart
	for i := range d.LineCount() {
		want := scanner.ScanLine(d.Line(i), state)
		got, ok := d.TokensForLine(i)
		require.True(t, ok)
		require.Equal(t, want.Tokens, got, "line %d", i)
		state = want.EndState
	}
}

func TestOpen(t *testing.T) {
	d := open(t, "int x;\nreturn x;")
	require.NotEmpty(t, d.ID())
	require.Equal(t, "test.cpp", d.Name())
	require.Equal(t, 2, d.LineCount())
	require.Equal(t, "return x;", d.Line(1))
	require.Equal(t, "", d.Line(5))
	require.Equal(t, len("int x;\nreturn x;"), d.Cursor())
	require.Equal(t, 100, d.Zoom())
	require.False(t, d.IsModified())
	require.Equal(t, history.Empty, d.History().State())
	require.Equal(t, []lexer.Category{lexer.CategoryKeyword, lexer.CategoryIdentifier, lexer.CategoryOperator}, categories(t, d, 0))
}

func TestOpen_EmptyText(t *testing.T) {
	d := open(t, "")
	require.Equal(t, 1, d.LineCount())
	toks, ok := d.TokensForLine(0)
	require.True(t, ok)
	require.Empty(t, toks)
}

func TestSetText_InsertLineInMiddle(t *testing.T) {
	d := open(t, "int a;\nint b;\nint c;")

	u := d.SetText(context.Background(), "int a;\nint b;\nfloat f;\nint c;", 0)
	require.Equal(t, 1, u.Added)
	require.Equal(t, 4, d.LineCount())
	require.Equal(t, []lexer.Category{lexer.CategoryKeyword, lexer.CategoryIdentifier, lexer.CategoryOperator}, categories(t, d, 2))
	requireInSync(t, d)
	require.True(t, d.IsModified())
}

func TestSetText_SameTextIsNoop(t *testing.T) {
	d := open(t, "int a;")
	ch := d.Subscribe(context.Background())

	u := d.SetText(context.Background(), "int a;", 2)
	require.Equal(t, relex.Update{}, u)
	require.Equal(t, 2, d.Cursor())

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %v", ev)
	default:
	}
}

func TestSetText_BlockCommentCarryOver(t *testing.T) {
	d := open(t, "int a;\nint b;\nint c;")

	u := d.SetText(context.Background(), "/* int a;\nint b;\nint c;", 0)
	require.Equal(t, 2, u.End, "comment opens onto the following lines")
	require.Equal(t, []lexer.Category{lexer.CategoryComment}, categories(t, d, 2))

	d.SetText(context.Background(), "/* int a; */\nint b;\nint c;", 0)
	require.Equal(t, []lexer.Category{lexer.CategoryKeyword, lexer.CategoryIdentifier, lexer.CategoryOperator}, categories(t, d, 1))
	requireInSync(t, d)
}

func TestSetText_PublishesRelexed(t *testing.T) {
	d := open(t, "a\nb")
	ch := d.Subscribe(context.Background())

	d.SetText(context.Background(), "a\nb\nc", 5)

	select {
	case ev := <-ch:
		require.Equal(t, pubsub.RelexedEvent, ev.Type)
		require.Equal(t, 1, ev.Payload.Added)
	case <-time.After(time.Second):
		t.Fatal("no relexed event")
	}
}

func TestCheckpointUndoRedo(t *testing.T) {
	ctx := context.Background()
	d := open(t, "int x")

	d.InsertText(ctx, " = 5;")
	require.Equal(t, "int x = 5;", d.Text())
	require.True(t, d.Checkpoint(ctx))
	require.False(t, d.Checkpoint(ctx), "nothing new to record")

	require.True(t, d.Undo(ctx))
	require.Equal(t, "int x", d.Text())
	require.Equal(t, 5, d.Cursor())
	requireInSync(t, d)

	require.False(t, d.Undo(ctx))

	require.True(t, d.Redo(ctx))
	require.Equal(t, "int x = 5;", d.Text())
	require.Equal(t, 10, d.Cursor())
	require.False(t, d.Redo(ctx))
	requireInSync(t, d)
}

func TestUndo_CheckpointsPendingText(t *testing.T) {
	ctx := context.Background()
	d := open(t, "")

	d.InsertText(ctx, "a")
	d.Checkpoint(ctx)
	d.InsertText(ctx, "b")

	require.True(t, d.Undo(ctx))
	require.Equal(t, "a", d.Text())
	require.True(t, d.History().CanRedo())
}

func TestUndo_NewEditDropsRedo(t *testing.T) {
	ctx := context.Background()
	d := open(t, "")

	d.InsertText(ctx, "one")
	d.Checkpoint(ctx)
	d.InsertText(ctx, " two")
	d.Checkpoint(ctx)

	require.True(t, d.Undo(ctx))
	d.InsertText(ctx, " three")
	d.Checkpoint(ctx)

	require.False(t, d.Redo(ctx))
	require.Equal(t, "one three", d.Text())
}

func TestHistoryEvents(t *testing.T) {
	ctx := context.Background()
	d := open(t, "")
	ch := d.SubscribeHistory(ctx)

	d.InsertText(ctx, "x")
	d.Checkpoint(ctx)
	d.Undo(ctx)
	d.Redo(ctx)
	d.Reload(ctx, "disk")

	var got []pubsub.EventType
	for range 4 {
		select {
		case ev := <-ch:
			got = append(got, ev.Type)
			require.Equal(t, d.ID(), ev.Payload.DocumentID)
		case <-time.After(time.Second):
			t.Fatal("missing history event")
		}
	}
	require.Equal(t, []pubsub.EventType{
		pubsub.CheckpointEvent, pubsub.UndoEvent, pubsub.RedoEvent, pubsub.ReloadedEvent,
	}, got)
}

func TestInsertPairAndDeleteBackward(t *testing.T) {
	ctx := context.Background()
	d := open(t, "f()")
	d.SetCursor(3)

	d.InsertPair(ctx, "{", "}")
	require.Equal(t, "f(){}", d.Text())
	require.Equal(t, 4, d.Cursor())

	d.InsertText(ctx, "\n")
	require.Equal(t, "f(){\n}", d.Text())
	require.Equal(t, 2, d.LineCount())

	require.True(t, d.DeleteBackward(ctx))
	require.Equal(t, "f(){}", d.Text())
	require.Equal(t, 1, d.LineCount())
	requireInSync(t, d)

	d.SetCursor(0)
	require.False(t, d.DeleteBackward(ctx))
}

func TestSetCursor_Clamps(t *testing.T) {
	d := open(t, "héllo")
	d.SetCursor(-3)
	require.Equal(t, 0, d.Cursor())
	d.SetCursor(99)
	require.Equal(t, 5, d.Cursor())
}

func TestZoom(t *testing.T) {
	d := open(t, "")
	require.Equal(t, 101, d.ZoomBy(1))
	require.Equal(t, 150, d.SetZoom(400))
	require.Equal(t, 50, d.SetZoom(0))
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()
	d := open(t, "")
	km := keys.DefaultKeyMap()

	press := func(name string) bool {
		msg, err := keys.ParseKey(name)
		require.NoError(t, err)
		return d.Dispatch(ctx, keys.Classify(km, msg))
	}

	require.True(t, press("i"))
	require.True(t, press("f"))
	require.True(t, press("["))
	require.Equal(t, "if[]", d.Text())
	require.True(t, press("backspace"))
	require.Equal(t, "if]", d.Text())

	require.True(t, press("ctrl+up"))
	require.Equal(t, 101, d.Zoom())
	d.SetZoom(150)
	require.False(t, press("alt+="), "zoom at its bound changes nothing")

	require.False(t, press("up"))

	require.True(t, press("ctrl+z"))
	require.Equal(t, "", d.Text())
	require.True(t, press("ctrl+y"))
	require.Equal(t, "if]", d.Text())

	require.False(t, d.Dispatch(ctx, keys.InsertText{}))
}

func TestMarkSavedAndReload(t *testing.T) {
	ctx := context.Background()
	d := open(t, "a")
	d.InsertText(ctx, "b")
	require.True(t, d.IsModified())
	d.MarkSaved()
	require.False(t, d.IsModified())

	d.Reload(ctx, "disk\ncontent")
	require.False(t, d.IsModified())
	require.Equal(t, 2, d.LineCount())
	requireInSync(t, d)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.History.MaxEntries = 3
	cfg.Lexer.ExtraKeywords = []string{"override"}
	cfg.Editor.ZoomDefault = 80

	opts := OptionsFromConfig(cfg)
	require.Equal(t, 3, opts.MaxHistory)
	require.Equal(t, 80, opts.ZoomDefault)
	require.NotNil(t, opts.ScanCache)
	require.True(t, opts.Language.IsKeyword("override"))

	d := Open("x.cpp", "void f() override;", opts)
	t.Cleanup(d.Close)
	require.Equal(t, lexer.CategoryKeyword, func() lexer.Category {
		toks, _ := d.TokensForLine(0)
		return toks[len(toks)-2].Category
	}())
	require.Equal(t, 3, d.History().Max())

	cfg.Lexer.Cache.Enabled = false
	require.Nil(t, OptionsFromConfig(cfg).ScanCache)
}

func TestTracing(t *testing.T) {
	ctx := context.Background()
	exporter := tracetest.NewInMemoryExporter()
	provider := tracing.NewProviderWithExporter(exporter)
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })

	opts := DefaultOptions()
	opts.Tracer = provider.Tracer()
	d := Open("t.cpp", "a", opts)
	t.Cleanup(d.Close)

	d.InsertText(ctx, "b")
	d.Undo(ctx)

	var names []string
	for _, s := range exporter.GetSpans() {
		names = append(names, s.Name)
	}
	require.Contains(t, names, tracing.SpanSetText)
	require.Contains(t, names, tracing.SpanCheckpoint)
	require.Contains(t, names, tracing.SpanUndo)
}

func TestEdits_StayInSync(t *testing.T) {
	alphabet := []string{"a", "1", " ", "\n", "/*", "*/", "\"", "=", "int", ".", "//"}

	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		d := Open("p.cpp", "", DefaultOptions())
		defer d.Close()

		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for range steps {
			d.SetCursor(rapid.IntRange(0, len([]rune(d.Text()))).Draw(rt, "cursor"))
			switch rapid.IntRange(0, 3).Draw(rt, "op") {
			case 0, 1:
				d.InsertText(ctx, rapid.SampledFrom(alphabet).Draw(rt, "text"))
			case 2:
				d.DeleteBackward(ctx)
			case 3:
				d.Checkpoint(ctx)
			}
			requireInSync(rt, d)
			require.Equal(rt, strings.Count(d.Text(), "\n")+1, d.LineCount())
		}

		for d.Undo(ctx) {
		}
		require.Equal(rt, "", d.Text())
		requireInSync(rt, d)
	})
}

func TestLatin1BytesSurviveEditing(t *testing.T) {
	ctx := context.Background()
	d := open(t, "char c = '\xe9';\n")
	require.Equal(t, 14, d.Cursor(), "the invalid byte counts as one character")

	d.SetCursor(0)
	d.InsertText(ctx, "x")
	require.Equal(t, "xchar c = '\xe9';\n", d.Text())
	require.True(t, d.Checkpoint(ctx))
	require.Equal(t, d.Text(), d.History().Text())

	d.SetText(ctx, "s\xe8", 2)
	require.True(t, d.Checkpoint(ctx), "replacing one invalid byte with another is recorded")
	require.Equal(t, "s\xe8", d.History().Text())

	d.SetCursor(2)
	require.True(t, d.DeleteBackward(ctx))
	require.Equal(t, "s", d.Text())

	require.True(t, d.Undo(ctx))
	require.Equal(t, "s\xe8", d.Text())
	require.True(t, d.Undo(ctx))
	require.Equal(t, "xchar c = '\xe9';\n", d.Text())
	requireInSync(t, d)
}
