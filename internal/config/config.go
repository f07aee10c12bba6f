// Package config defines the configuration types and defaults for pyfix.
package config

import (
	"fmt"
	"time"
)

// Output modes for the materializer.
const (
	OutputModeSuffix = "suffix"
	OutputModeMirror = "mirror-directory"
)

// KnownRules lists every rule identifier, in engine priority order.
var KnownRules = []string{
	"indentation",
	"import-split",
	"line-length",
	"whitespace",
}

// Config holds all pyfix settings. It is immutable for the duration of a run.
type Config struct {
	IndentUnit    int      `koanf:"indent_unit" yaml:"indent_unit"`
	TabWidth      int      `koanf:"tab_width" yaml:"tab_width"`
	MaxLineLength int      `koanf:"max_line_length" yaml:"max_line_length"`
	MaxBlankLines int      `koanf:"max_blank_lines" yaml:"max_blank_lines"`
	EnabledRules  []string `koanf:"enabled_rules" yaml:"enabled_rules"`

	OutputMode string `koanf:"output_mode" yaml:"output_mode"`
	Suffix     string `koanf:"suffix" yaml:"suffix"`
	OutputDir  string `koanf:"output_dir" yaml:"output_dir"`
	Overwrite  bool   `koanf:"overwrite" yaml:"overwrite"`

	IOTimeout time.Duration `koanf:"io_timeout" yaml:"io_timeout"`
	Jobs      int           `koanf:"jobs" yaml:"jobs"`
}

// DefaultConfig returns a Config with all default values.
func DefaultConfig() *Config {
	return &Config{
		IndentUnit:    4,
		TabWidth:      8,
		MaxLineLength: 79,
		MaxBlankLines: 2,
		EnabledRules:  append([]string(nil), KnownRules...),
		OutputMode:    OutputModeSuffix,
		Suffix:        "_fixed",
		IOTimeout:     10 * time.Second,
	}
}

// RuleEnabled reports whether the named rule is in the enabled set.
func (c *Config) RuleEnabled(id string) bool {
	for _, r := range c.EnabledRules {
		if r == id {
			return true
		}
	}
	return false
}

// Validate checks the configuration for values that would make a run
// meaningless. A validation failure halts before any file is processed.
func (c *Config) Validate() error {
	if c.IndentUnit <= 0 {
		return fmt.Errorf("indent_unit must be positive, got %d", c.IndentUnit)
	}
	if c.TabWidth <= 0 {
		return fmt.Errorf("tab_width must be positive, got %d", c.TabWidth)
	}
	if c.MaxLineLength <= 0 {
		return fmt.Errorf("max_line_length must be positive, got %d", c.MaxLineLength)
	}
	if c.MaxBlankLines < 0 {
		return fmt.Errorf("max_blank_lines must be non-negative, got %d", c.MaxBlankLines)
	}
	if c.IOTimeout <= 0 {
		return fmt.Errorf("io_timeout must be positive, got %s", c.IOTimeout)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must be non-negative, got %d", c.Jobs)
	}

	switch c.OutputMode {
	case OutputModeSuffix:
		if c.Suffix == "" {
			return fmt.Errorf("suffix must not be empty in %s mode", OutputModeSuffix)
		}
	case OutputModeMirror:
		if c.OutputDir == "" {
			return fmt.Errorf("output_dir is required in %s mode", OutputModeMirror)
		}
	default:
		return fmt.Errorf("unknown output_mode %q", c.OutputMode)
	}

	for _, id := range c.EnabledRules {
		if !knownRule(id) {
			return fmt.Errorf("unknown rule %q in enabled_rules", id)
		}
	}

	return nil
}

func knownRule(id string) bool {
	for _, known := range KnownRules {
		if known == id {
			return true
		}
	}
	return false
}
