package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero indent unit", func(c *Config) { c.IndentUnit = 0 }},
		{"negative line length", func(c *Config) { c.MaxLineLength = -1 }},
		{"negative blank lines", func(c *Config) { c.MaxBlankLines = -1 }},
		{"zero tab width", func(c *Config) { c.TabWidth = 0 }},
		{"unknown output mode", func(c *Config) { c.OutputMode = "in-place" }},
		{"mirror without output dir", func(c *Config) { c.OutputMode = OutputModeMirror }},
		{"empty suffix", func(c *Config) { c.Suffix = "" }},
		{"unknown rule", func(c *Config) { c.EnabledRules = []string{"tabs"} }},
		{"zero timeout", func(c *Config) { c.IOTimeout = 0 }},
		{"negative jobs", func(c *Config) { c.Jobs = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestRuleEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnabledRules = []string{"whitespace"}

	assert.True(t, cfg.RuleEnabled("whitespace"))
	assert.False(t, cfg.RuleEnabled("indentation"))
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pyfix.yml")
	require.NoError(t, os.WriteFile(path, []byte("max_line_length: 100\n"), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.MaxLineLength)
	assert.Equal(t, 4, cfg.IndentUnit)
	assert.Equal(t, 2, cfg.MaxBlankLines)
	assert.Equal(t, OutputModeSuffix, cfg.OutputMode)
	assert.Equal(t, 10*time.Second, cfg.IOTimeout)
}

func TestLoadFlagOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pyfix.yml")
	require.NoError(t, os.WriteFile(path, []byte("max_line_length: 100\nindent_unit: 2\n"), 0o644))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("max-line-length", 0, "")
	require.NoError(t, flags.Parse([]string{"--max-line-length=120"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.MaxLineLength, "changed flag wins")
	assert.Equal(t, 2, cfg.IndentUnit, "unset flag falls through to file")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pyfix.yml")
	require.NoError(t, os.WriteFile(path, []byte("max_blank_lines: 5\n"), 0o644))

	t.Setenv("PYFIX_MAX_BLANK_LINES", "1")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.MaxBlankLines)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pyfix.yml")
	require.NoError(t, os.WriteFile(path, []byte("output_mode: in-place\n"), 0o644))

	_, err := Load(path, nil)
	require.Error(t, err)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"), nil)
	require.Error(t, err)
}

func TestDiscoverSearchOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".pyfix.yml"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pyfix.yaml"), []byte("{}"), 0o644))

	assert.Equal(t, filepath.Join(dir, "pyfix.yaml"), Discover(dir))
	assert.Equal(t, "", Discover(t.TempDir()))
}
