package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zjrosen/lexedit/internal/keys"
)

func newKeysCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the editing key bindings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			km := keys.NewKeyMap(a.cfg.Editor.AutoPairs)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, group := range km.FullHelp() {
				for _, b := range group {
					if !b.Enabled() {
						continue
					}
					fmt.Fprintf(tw, "%s\t%s\n", b.Help().Key, b.Help().Desc)
				}
			}
			return tw.Flush()
		},
	}
}
