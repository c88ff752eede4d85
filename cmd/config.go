package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/lexedit/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the lexedit configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigSetColorCmd(a), newConfigPathCmd(a))
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [PATH]",
		Short: "Write the default config file",
		Long: `Write the commented default configuration to PATH
(default .lexedit/config.yaml). An existing file is kept unless --force is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.LocalConfigPath
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.WriteDefaultConfig(path); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return err
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func newConfigSetColorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-color CATEGORY COLOR",
		Short: "Set the theme color of a token category",
		Long: `Set theme.colors.CATEGORY in the loaded config file, keeping the
rest of the file and its comments. COLOR is "#RRGGBB", "#RGB" or an ANSI
number 0-255.

Example:
  lexedit config set-color keyword "#C586C0"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.writableConfigPath()
			if err := config.SetThemeColor(path, a.cfg.Theme, args[0], args[1]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "set %s to %s in %s\n", args[0], args[1], path)
			return err
		},
	}
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.configPath
			if path == "" {
				path = "(none, using defaults)"
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
}
