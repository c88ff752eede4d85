// Package config provides configuration types, defaults and validation for
// lexedit.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/zjrosen/lexedit/internal/log"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all configuration options for lexedit.
type Config struct {
	History HistoryConfig `mapstructure:"history"`
	Lexer   LexerConfig   `mapstructure:"lexer"`
	Editor  EditorConfig  `mapstructure:"editor"`
	Theme   ThemeConfig   `mapstructure:"theme"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// HistoryConfig bounds the undo history and sets how often edits are
// checkpointed into it.
type HistoryConfig struct {
	MaxEntries         int           `mapstructure:"max_entries"`
	CheckpointInterval time.Duration `mapstructure:"checkpoint_interval"`
}

// LexerConfig selects the scanner vocabulary.
type LexerConfig struct {
	Language      string      `mapstructure:"language"` // only "cpp" is built in
	ExtraKeywords []string    `mapstructure:"extra_keywords"`
	Cache         CacheConfig `mapstructure:"cache"`
}

// CacheConfig controls the line scan cache.
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// EditorConfig holds key handling and zoom options.
type EditorConfig struct {
	ZoomDefault int               `mapstructure:"zoom_default"`
	ZoomMin     int               `mapstructure:"zoom_min"`
	ZoomMax     int               `mapstructure:"zoom_max"`
	AutoPairs   map[string]string `mapstructure:"auto_pairs"` // opening -> closing bracket
}

// ThemeConfig holds font and color settings for highlighted output.
type ThemeConfig struct {
	FontFamily  string `mapstructure:"font_family"`
	FontSize    int    `mapstructure:"font_size"`
	LineNumbers bool   `mapstructure:"line_numbers"`

	// Colors maps token categories to colors. Values are hex ("#RRGGBB")
	// or ANSI color numbers. Nested maps are flattened to dot notation:
	//   colors:
	//     literal:
	//       string: "#CE9178"
	// is equivalent to "literal.string".
	Colors map[string]any `mapstructure:"colors"`
}

// FlattenedColors returns the Colors map flattened to dot-notation keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flattenColors("", t.Colors, result)
	return result
}

func flattenColors(prefix string, m map[string]any, result map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			result[key] = val
		case map[string]any:
			flattenColors(key, val, result)
		case map[any]any:
			converted := make(map[string]any)
			for mk, mv := range val {
				if strKey, ok := mk.(string); ok {
					converted[strKey] = mv
				}
			}
			flattenColors(key, converted, result)
		}
	}
}

// ColorFor returns the configured color of a category name, falling back to
// DefaultColors and then to "" (terminal default).
func (t ThemeConfig) ColorFor(category string) string {
	if c, ok := t.FlattenedColors()[category]; ok {
		return c
	}
	return DefaultColors()[category]
}

// TracingConfig holds tracing configuration for document operations.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/lexedit/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultColors returns the built-in category colors.
func DefaultColors() map[string]string {
	return map[string]string{
		"keyword":    "#569CD6",
		"identifier": "#D4D4D4",
		"number":     "#B5CEA8",
		"float":      "#B5CEA8",
		"operator":   "#D4D4D4",
		"string":     "#CE9178",
		"char":       "#CE9178",
		"comment":    "#6A9955",
		"undefined":  "#F44747",
	}
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/lexedit/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "lexedit", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		History: HistoryConfig{
			MaxEntries:         100,
			CheckpointInterval: 2 * time.Second,
		},
		Lexer: LexerConfig{
			Language: "cpp",
			Cache: CacheConfig{
				Enabled:         true,
				TTL:             10 * time.Minute,
				CleanupInterval: 30 * time.Minute,
			},
		},
		Editor: EditorConfig{
			ZoomDefault: 100,
			ZoomMin:     50,
			ZoomMax:     150,
			AutoPairs:   map[string]string{"{": "}", "[": "]"},
		},
		Theme: ThemeConfig{
			FontFamily:  "monospace",
			FontSize:    12,
			LineNumbers: true,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// Validate checks every section of cfg.
func Validate(cfg Config) error {
	return errors.Join(
		ValidateHistory(cfg.History),
		ValidateLexer(cfg.Lexer),
		ValidateEditor(cfg.Editor),
		ValidateTheme(cfg.Theme),
		ValidateTracing(cfg.Tracing),
	)
}

// ValidateHistory checks history configuration for errors.
func ValidateHistory(h HistoryConfig) error {
	if h.MaxEntries < 0 {
		return fmt.Errorf("%w: history.max_entries must not be negative, got %d", ErrInvalid, h.MaxEntries)
	}
	if h.CheckpointInterval < 0 {
		return fmt.Errorf("%w: history.checkpoint_interval must not be negative, got %v", ErrInvalid, h.CheckpointInterval)
	}
	return nil
}

// ValidateLexer checks lexer configuration for errors.
func ValidateLexer(l LexerConfig) error {
	if l.Language != "" && l.Language != "cpp" {
		return fmt.Errorf("%w: lexer.language must be \"cpp\", got %q", ErrInvalid, l.Language)
	}
	for _, kw := range l.ExtraKeywords {
		if !identifierPattern.MatchString(strings.TrimSpace(kw)) {
			return fmt.Errorf("%w: lexer.extra_keywords entry %q is not an identifier", ErrInvalid, kw)
		}
	}
	if l.Cache.Enabled && l.Cache.TTL < 0 {
		return fmt.Errorf("%w: lexer.cache.ttl must not be negative", ErrInvalid)
	}
	return nil
}

// ValidateEditor checks zoom bounds and auto pairs.
func ValidateEditor(e EditorConfig) error {
	if e.ZoomMin <= 0 || e.ZoomMax < e.ZoomMin {
		return fmt.Errorf("%w: editor zoom bounds must satisfy 0 < zoom_min <= zoom_max, got %d..%d", ErrInvalid, e.ZoomMin, e.ZoomMax)
	}
	if e.ZoomDefault < e.ZoomMin || e.ZoomDefault > e.ZoomMax {
		return fmt.Errorf("%w: editor.zoom_default %d outside %d..%d", ErrInvalid, e.ZoomDefault, e.ZoomMin, e.ZoomMax)
	}
	for open, closing := range e.AutoPairs {
		if len([]rune(open)) != 1 || closing == "" {
			return fmt.Errorf("%w: editor.auto_pairs entry %q: %q must map one character to a non-empty string", ErrInvalid, open, closing)
		}
	}
	return nil
}

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	hexColorPattern   = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)
	ansiColorPattern  = regexp.MustCompile(`^([0-9]|[1-9][0-9]|1[0-9][0-9]|2[0-4][0-9]|25[0-5])$`)
)

// ColorKeys lists the category names a theme may color.
var ColorKeys = []string{
	"keyword", "identifier", "number", "float", "operator",
	"string", "char", "comment", "undefined", "whitespace",
}

// ValidateTheme checks font settings and color values.
func ValidateTheme(t ThemeConfig) error {
	if t.FontSize < 0 {
		return fmt.Errorf("%w: theme.font_size must not be negative, got %d", ErrInvalid, t.FontSize)
	}
	for key, value := range t.FlattenedColors() {
		if !slices.Contains(ColorKeys, key) {
			return fmt.Errorf("%w: theme.colors has unknown category %q", ErrInvalid, key)
		}
		if !IsColor(value) {
			return fmt.Errorf("%w: theme.colors.%s: %q is not a hex or ANSI color", ErrInvalid, key, value)
		}
	}
	return nil
}

// IsColor reports whether s is a hex color or an ANSI color number.
func IsColor(s string) bool {
	return hexColorPattern.MatchString(s) || ansiColorPattern.MatchString(s)
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("%w: tracing.sample_rate must be between 0.0 and 1.0, got %v", ErrInvalid, tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("%w: tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", ErrInvalid, tracing.Exporter)
		}
	}

	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("%w: tracing.file_path is required when exporter is \"file\"", ErrInvalid)
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("%w: tracing.otlp_endpoint is required when exporter is \"otlp\"", ErrInvalid)
		}
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# lexedit configuration

# Undo history
history:
  max_entries: 100          # Patches kept before the oldest is dropped
  checkpoint_interval: 2s   # Quiet time before pending edits are recorded

# Scanner settings
lexer:
  language: cpp
  # extra_keywords:         # Identifiers highlighted as keywords
  #   - override
  #   - final
  cache:
    enabled: true           # Reuse scans of identical lines
    ttl: 10m
    cleanup_interval: 30m

# Editing behaviour
editor:
  zoom_default: 100
  zoom_min: 50
  zoom_max: 150
  auto_pairs:               # Brackets closed automatically when typed
    "{": "}"
    "[": "]"

# Highlighting theme
theme:
  font_family: monospace
  font_size: 12
  line_numbers: true
  # Override category colors (hex or ANSI 0-255):
  # colors:
  #   keyword: "#569CD6"
  #   string: "#CE9178"
  #   comment: "#6A9955"
  #   undefined: "#F44747"
  #
  # Categories: keyword, identifier, number, float, operator, string, char,
  #             comment, undefined, whitespace

# Tracing of document operations
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/lexedit/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
