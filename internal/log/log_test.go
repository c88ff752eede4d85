package log

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLog_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf)
	t.Cleanup(Reset)

	Info(CatRelex, "rescanned", "start", 2, "end", 4)
	ErrorErr(CatConfig, "load failed", errors.New("boom"))
	Debug(CatLexer, "odd", "orphan")

	out := buf.String()
	require.Contains(t, out, "[INFO] [relex] rescanned start=2 end=4")
	require.Contains(t, out, "[ERROR] [config] load failed error=boom")
	require.Contains(t, out, "orphan=<missing>")
}

func TestLog_MinLevelAndDisable(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf)
	t.Cleanup(Reset)

	SetMinLevel(LevelWarn)
	Info(CatEditor, "hidden")
	Warn(CatEditor, "shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "[WARN] [editor] shown")

	SetEnabled(false)
	Error(CatEditor, "muted")
	require.NotContains(t, buf.String(), "muted")
}

func TestLog_NoLoggerIsSilent(t *testing.T) {
	Reset()
	require.NotPanics(t, func() { Info(CatHistory, "nothing") })
	require.Nil(t, Subscribe(context.Background()))
}

func TestLog_Subscribe(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf)
	t.Cleanup(Reset)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := Subscribe(ctx)

	Warn(CatWatcher, "reloaded", "path", "a.cpp")

	select {
	case event := <-ch:
		require.Contains(t, event.Payload, "path=a.cpp")
	case <-time.After(100 * time.Millisecond):
		require.Fail(t, "timeout waiting for log event")
	}
}

func TestLog_InitWithTeaLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	cleanup, err := InitWithTeaLog(path, "lexedit")
	require.NoError(t, err)
	t.Cleanup(func() {
		cleanup()
		Reset()
	})

	Info(CatTrace, "provider started")
	require.FileExists(t, path)
}
