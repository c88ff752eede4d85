package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zjrosen/lexedit/internal/editor"
	"github.com/zjrosen/lexedit/internal/log"
	"github.com/zjrosen/lexedit/internal/pubsub"
	"github.com/zjrosen/lexedit/internal/relex"
	"github.com/zjrosen/lexedit/internal/watcher"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE",
		Short: "Rescan FILE whenever it is saved",
		Long: `Watch FILE and, once writes have been quiet for
history.checkpoint_interval, rescan the changed lines and record the edit in
the undo history. Stop with Ctrl+C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, args[0], cmd.OutOrStdout())
		},
	}
}

// watch reloads path on every settled change until ctx is done.
func (a *app) watch(ctx context.Context, path string, out io.Writer) error {
	doc, err := a.openFile(path)
	if err != nil {
		return err
	}
	defer doc.Close()

	w, err := watcher.New(watcher.Config{Path: path, Debounce: a.cfg.History.CheckpointInterval})
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return err
	}
	updates := doc.Subscribe(ctx)

	fmt.Fprintf(out, "watching %s (%d lines)\n", path, doc.LineCount())
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			if err := reload(ctx, doc, path); err != nil {
				log.ErrorErr(log.CatWatcher, "reload failed", err, "path", path)
				fmt.Fprintf(out, "reload failed: %v\n", err)
			}
		case ev, ok := <-updates:
			if !ok {
				return nil
			}
			printUpdate(out, doc, ev)
		}
	}
}

func reload(ctx context.Context, doc *editor.Document, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	doc.Reload(ctx, string(data))
	doc.Checkpoint(ctx)
	return nil
}

func printUpdate(out io.Writer, doc *editor.Document, ev pubsub.Event[relex.Update]) {
	u := ev.Payload
	scope := fmt.Sprintf("lines %d-%d", u.Start+1, u.End+1)
	if u.FullRescan {
		scope = "all lines"
	}
	h := doc.History()
	fmt.Fprintf(out, "%s rescanned %s (+%d -%d), repaint from %d, history %d/%d\n",
		ev.Timestamp.Format("15:04:05"), scope, u.Added, u.Removed, u.HighlightStart+1, h.Position()+1, h.Len())
}
