package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/lexedit/internal/diff"
)

func newDiffCmd(_ *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Print the single contiguous patch turning OLD into NEW",
		Long: `Trim the common prefix and suffix of OLD and NEW and print what
remains as one patch. Positions are character offsets into OLD.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			previous, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			next, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[1], err)
			}

			patch := diff.Compute(string(previous), string(next))
			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(patch)
			}
			if patch.IsEmpty() {
				_, err = fmt.Fprintln(out, "no change")
				return err
			}
			first, last := patch.LineSpan(string(next))
			_, err = fmt.Fprintf(out, "position: %d\nremoved: %q\ninserted: %q\nlines: %d-%d (%+d)\n%s\n",
				patch.Position, patch.Removed, patch.Inserted, first+1, last+1, patch.LineDelta(), patch.Pretty())
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the patch as JSON")
	return cmd
}
