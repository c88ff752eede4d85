package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/zjrosen/lexedit/internal/log"
)

// LocalConfigPath is the project-local config file, checked before the user
// config directory.
const LocalConfigPath = ".lexedit/config.yaml"

// UserConfigDir returns ~/.config/lexedit, or "" if home is unavailable.
func UserConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "lexedit")
}

// ApplyDefaults registers Defaults with v so unset keys decode to them.
func ApplyDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("history.max_entries", d.History.MaxEntries)
	v.SetDefault("history.checkpoint_interval", d.History.CheckpointInterval)
	v.SetDefault("lexer.language", d.Lexer.Language)
	v.SetDefault("lexer.cache.enabled", d.Lexer.Cache.Enabled)
	v.SetDefault("lexer.cache.ttl", d.Lexer.Cache.TTL)
	v.SetDefault("lexer.cache.cleanup_interval", d.Lexer.Cache.CleanupInterval)
	v.SetDefault("editor.zoom_default", d.Editor.ZoomDefault)
	v.SetDefault("editor.zoom_min", d.Editor.ZoomMin)
	v.SetDefault("editor.zoom_max", d.Editor.ZoomMax)
	v.SetDefault("editor.auto_pairs", d.Editor.AutoPairs)
	v.SetDefault("theme.font_family", d.Theme.FontFamily)
	v.SetDefault("theme.font_size", d.Theme.FontSize)
	v.SetDefault("theme.line_numbers", d.Theme.LineNumbers)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
}

// Load reads configuration into a Config. explicit, when set, must exist.
// Otherwise LocalConfigPath and then UserConfigDir()/config.yaml are tried,
// and defaults are used when neither exists. Environment variables such as
// LEXEDIT_HISTORY_MAX_ENTRIES override file values. The returned path is the
// file that was read, or "".
func Load(v *viper.Viper, explicit string) (Config, string, error) {
	ApplyDefaults(v)
	v.SetEnvPrefix("LEXEDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case explicit != "":
		v.SetConfigFile(explicit)
	case fileExists(LocalConfigPath):
		v.SetConfigFile(LocalConfigPath)
	default:
		if dir := UserConfigDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return Config{}, "", fmt.Errorf("reading config: %w", err)
		}
		log.Debug(log.CatConfig, "no config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", fmt.Errorf("decoding config: %w", err)
	}
	if cfg.Tracing.FilePath == "" {
		cfg.Tracing.FilePath = DefaultTracesFilePath()
	}
	if err := Validate(cfg); err != nil {
		return Config{}, "", err
	}

	used := v.ConfigFileUsed()
	log.Debug(log.CatConfig, "config loaded", "path", used)
	return cfg, used, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
