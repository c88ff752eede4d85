package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/lexedit/internal/editor"
	"github.com/zjrosen/lexedit/internal/lexer"
)

// tokenJSON is the --json form of a token.
type tokenJSON struct {
	Text     string `json:"text"`
	Category string `json:"category"`
	Begin    int    `json:"begin"`
	End      int    `json:"end"`
}

// lineJSON is the --json form of one scanned line.
type lineJSON struct {
	Line     int         `json:"line"`
	Tokens   []tokenJSON `json:"tokens"`
	EndState string      `json:"end_state"`
}

func newTokensCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tokens FILE",
		Short: "Print the tokens of every line",
		Long: `Scan FILE and print each line's tokens with their category and
character range.

Examples:
  lexedit tokens main.cpp
  lexedit tokens --json main.cpp | jq '.[0].tokens'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.openFile(args[0])
			if err != nil {
				return err
			}
			defer doc.Close()

			lines := collectLines(doc)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(lines)
			}
			for _, l := range lines {
				for _, tok := range l.Tokens {
					if _, err := fmt.Fprintf(out, "%d:%d-%d\t%s\t%q\n", l.Line+1, tok.Begin, tok.End, tok.Category, tok.Text); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of one token per line")
	return cmd
}

func collectLines(doc *editor.Document) []lineJSON {
	lines := make([]lineJSON, 0, doc.LineCount())
	for i := range doc.LineCount() {
		tokens, _ := doc.TokensForLine(i)
		l := lineJSON{Line: i, Tokens: make([]tokenJSON, 0, len(tokens)), EndState: lexer.StateStart.String()}
		for _, tok := range tokens {
			l.Tokens = append(l.Tokens, tokenJSON{
				Text:     tok.Text,
				Category: tok.Category.String(),
				Begin:    tok.Begin,
				End:      tok.End,
			})
		}
		if line, ok := doc.StoredLine(i); ok {
			l.EndState = line.EndState.String()
		}
		lines = append(lines, l)
	}
	return lines
}
