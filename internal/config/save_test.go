package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveThemeColors_CreatesNewFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, SaveThemeColors(configPath, map[string]string{"keyword": "#FF0000"}))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "theme:")
	assert.Contains(t, string(data), `keyword: "#FF0000"`)
}

func TestSaveThemeColors_PreservesOtherConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	initial := `# my settings
history:
  max_entries: 20 # keep it short
theme:
  font_size: 14
  colors:
    comment: "#00FF00"
`
	require.NoError(t, os.WriteFile(configPath, []byte(initial), 0o600))

	require.NoError(t, SaveThemeColors(configPath, map[string]string{"keyword": "#0000FF", "comment": "#00FF00"}))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "# my settings")
	assert.Contains(t, content, "# keep it short")
	assert.Contains(t, content, "font_size: 14")

	cfg, _, err := Load(viper.New(), configPath)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.History.MaxEntries)
	assert.Equal(t, "#0000FF", cfg.Theme.ColorFor("keyword"))
	assert.Equal(t, "#00FF00", cfg.Theme.ColorFor("comment"))
}

func TestSaveThemeColors_ReplacesScalarTheme(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("theme: dark\n"), 0o600))

	require.NoError(t, SaveThemeColors(configPath, map[string]string{"char": "42"}))

	cfg, _, err := Load(viper.New(), configPath)
	require.NoError(t, err)
	assert.Equal(t, "42", cfg.Theme.ColorFor("char"))
}

func TestSaveThemeColors_RejectsNonMapping(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("- a\n- b\n"), 0o600))

	require.Error(t, SaveThemeColors(configPath, map[string]string{"char": "42"}))
}

func TestSetThemeColor(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	current := ThemeConfig{Colors: map[string]any{"comment": "#00FF00"}}

	require.ErrorIs(t, SetThemeColor(configPath, current, "bogus", "#fff"), ErrInvalid)
	require.ErrorIs(t, SetThemeColor(configPath, current, "keyword", "red"), ErrInvalid)
	_, err := os.Stat(configPath)
	require.True(t, os.IsNotExist(err), "invalid input writes nothing")

	require.NoError(t, SetThemeColor(configPath, current, "keyword", "#123456"))
	cfg, _, err := Load(viper.New(), configPath)
	require.NoError(t, err)
	assert.Equal(t, "#123456", cfg.Theme.ColorFor("keyword"))
	assert.Equal(t, "#00FF00", cfg.Theme.ColorFor("comment"))
}

func TestWriteAtomic_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, writeAtomic(path, []byte("a: 1\n")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "config.yaml", entries[0].Name())
}
