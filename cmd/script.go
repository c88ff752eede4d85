package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/lexedit/internal/editor"
	"github.com/zjrosen/lexedit/internal/keys"
	"github.com/zjrosen/lexedit/internal/log"
)

// Script is a recorded editing session replayed by the script command.
//
//	cursor: 0
//	steps:
//	  - type: "int x"
//	  - checkpoint: true
//	  - keys: [ctrl+z, ctrl+y]
type Script struct {
	Cursor *int   `yaml:"cursor"`
	Steps  []Step `yaml:"steps"`
}

// Step is one script action. Fields are applied in the order Cursor, Type,
// Keys, Checkpoint.
type Step struct {
	Cursor     *int     `yaml:"cursor"`
	Type       string   `yaml:"type"`
	Keys       []string `yaml:"keys"`
	Checkpoint bool     `yaml:"checkpoint"`
}

// ParseScript decodes a YAML key script.
func ParseScript(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("parsing script: %w", err)
	}
	for i, step := range s.Steps {
		for _, name := range step.Keys {
			if _, err := keys.ParseKey(name); err != nil {
				return Script{}, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
	}
	return s, nil
}

func newScriptCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "script FILE SCRIPT",
		Short: "Replay a YAML key script against FILE",
		Long: `Open FILE, replay the key presses in SCRIPT through the editing key
bindings and print the resulting text with the history and zoom state.

Example script:
  steps:
    - type: "int x"
    - checkpoint: true
    - keys: [ctrl+z, ctrl+y, ctrl+up]`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[1], err)
			}
			script, err := ParseScript(data)
			if err != nil {
				return err
			}

			doc, err := a.openFile(args[0])
			if err != nil {
				return err
			}
			defer doc.Close()

			km := keys.NewKeyMap(a.cfg.Editor.AutoPairs)
			runScript(cmd.Context(), doc, km, script)

			if output != "" {
				if err := os.WriteFile(output, []byte(doc.Text()), 0o600); err != nil {
					return fmt.Errorf("writing %s: %w", output, err)
				}
				doc.MarkSaved()
			}
			return printSummary(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the final text to this file")
	return cmd
}

func runScript(ctx context.Context, doc *editor.Document, km keys.KeyMap, script Script) {
	if ctx == nil {
		ctx = context.Background()
	}
	if script.Cursor != nil {
		doc.SetCursor(*script.Cursor)
	}
	press := func(msg tea.KeyMsg) {
		cmd := keys.Classify(km, msg)
		changed := doc.Dispatch(ctx, cmd)
		log.Debug(log.CatEditor, "script key", "key", msg.String(), "command", keys.Name(cmd), "changed", changed)
	}

	for _, step := range script.Steps {
		if step.Cursor != nil {
			doc.SetCursor(*step.Cursor)
		}
		for _, r := range step.Type {
			press(typedKey(r))
		}
		for _, name := range step.Keys {
			msg, _ := keys.ParseKey(name) // validated by ParseScript
			press(msg)
		}
		if step.Checkpoint {
			doc.Checkpoint(ctx)
		}
	}
}

// typedKey returns the key message a terminal sends for typing r.
func typedKey(r rune) tea.KeyMsg {
	switch r {
	case '\n':
		return tea.KeyMsg{Type: tea.KeyEnter}
	case '\t':
		return tea.KeyMsg{Type: tea.KeyTab}
	case ' ':
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func printSummary(out io.Writer, doc *editor.Document) error {
	h := doc.History()
	_, err := fmt.Fprintf(out, "%s\n---\nlines: %d\ncursor: %d\nzoom: %d\nhistory: %s %d/%d\nmodified: %t\n",
		doc.Text(), doc.LineCount(), doc.Cursor(), doc.Zoom(), h.State(), h.Position()+1, h.Len(), doc.IsModified())
	return err
}
