// Package cmd implements the lexedit command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/lexedit/internal/config"
	"github.com/zjrosen/lexedit/internal/editor"
	"github.com/zjrosen/lexedit/internal/log"
	"github.com/zjrosen/lexedit/internal/tracing"
)

var version = "dev"

// app is the state shared by every command of one invocation.
type app struct {
	cfgFile    string
	debug      bool
	cfg        config.Config
	configPath string
	tracing    *tracing.Provider
	closeLog   func()
}

// NewRootCmd builds the lexedit command tree.
func NewRootCmd() *cobra.Command {
	a := &app{tracing: tracing.Noop()}

	root := &cobra.Command{
		Use:   "lexedit",
		Short: "Incremental C++ highlighting with diff based undo history",
		Long: `lexedit scans C++ source line by line, rescans only the lines an edit
touches and records edits as minimal patches for undo and redo.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: .lexedit/config.yaml, then ~/.config/lexedit/config.yaml)")
	flags.BoolVarP(&a.debug, "debug", "d", false,
		"write debug logs to $LEXEDIT_LOG (default debug.log, \"-\" for stderr)")
	flags.Int("max-history", 0, "maximum undo history entries (overrides config)")

	root.AddCommand(
		newTokensCmd(a),
		newHighlightCmd(a),
		newDiffCmd(a),
		newWatchCmd(a),
		newScriptCmd(a),
		newKeysCmd(a),
		newConfigCmd(a),
	)
	return root
}

// setup enables logging, loads the configuration and starts tracing.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.debug || os.Getenv("LEXEDIT_DEBUG") != "" {
		if err := a.initLog(); err != nil {
			return err
		}
	}

	v := viper.New()
	if f := cmd.Flags().Lookup("max-history"); f != nil {
		_ = v.BindPFlag("history.max_entries", f)
	}
	cfg, used, err := config.Load(v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.configPath = used

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	a.tracing = provider

	log.Info(log.CatConfig, "lexedit starting", "version", version, "config", used, "tracing", provider.Enabled())
	return nil
}

func (a *app) initLog() error {
	logPath := os.Getenv("LEXEDIT_LOG")
	switch logPath {
	case "-":
		log.InitWithWriter(os.Stderr)
		a.closeLog = log.Reset
		return nil
	case "":
		logPath = "debug.log"
	}

	cleanup, err := log.InitWithTeaLog(logPath, "lexedit")
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	a.closeLog = func() {
		log.Reset()
		cleanup()
	}
	return nil
}

func (a *app) teardown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	err := a.tracing.Shutdown(ctx)
	if a.closeLog != nil {
		a.closeLog()
		a.closeLog = nil
	}
	return err
}

// openFile reads path into a new document configured from the loaded config.
func (a *app) openFile(path string) (*editor.Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	opts := editor.OptionsFromConfig(a.cfg)
	opts.Tracer = a.tracing.Tracer()
	return editor.Open(filepath.Base(path), string(data), opts), nil
}

// writableConfigPath returns the config file that was loaded, or the local
// config path when none was.
func (a *app) writableConfigPath() string {
	if a.configPath != "" {
		return a.configPath
	}
	if a.cfgFile != "" {
		return a.cfgFile
	}
	return config.LocalConfigPath
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
}
