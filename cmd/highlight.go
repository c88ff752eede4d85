package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/lexedit/internal/render"
)

func newHighlightCmd(a *app) *cobra.Command {
	var noNumbers bool

	cmd := &cobra.Command{
		Use:   "highlight FILE",
		Short: "Print FILE with syntax colors",
		Long: `Print FILE highlighted with the theme colors. Unrecognized
lexemes are underlined and marked with "~" on the following line.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.openFile(args[0])
			if err != nil {
				return err
			}
			defer doc.Close()

			theme := a.cfg.Theme
			if noNumbers {
				theme.LineNumbers = false
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), render.New(theme).Document(doc))
			return err
		},
	}
	cmd.Flags().BoolVar(&noNumbers, "no-line-numbers", false, "omit the line number gutter")
	return cmd
}
