package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// configFileNames is the ordered list of config file names to search for.
var configFileNames = []string{
	"pyfix.yml",
	"pyfix.yaml",
	".pyfix.yml",
	".pyfix.yaml",
}

// envPrefix is the prefix for environment variable overrides,
// e.g. PYFIX_MAX_LINE_LENGTH=100.
const envPrefix = "PYFIX_"

// Discover returns the path of the first config file found in dir,
// following the standard search order. It returns an empty string if
// no config file is found.
func Discover(dir string) string {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load builds the effective configuration. Precedence, highest to lowest:
// flags > environment variables > config file > defaults.
//
// If configPath is non-empty, that file is loaded directly. Otherwise Load
// searches the current working directory using Discover. Partial config
// files are supported: unset keys retain their default values.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	if configPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		configPath = Discover(wd)
	}

	k := koanf.New(".")

	// 1. Defaults.
	defaults := DefaultConfig()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"indent_unit":     defaults.IndentUnit,
		"tab_width":       defaults.TabWidth,
		"max_line_length": defaults.MaxLineLength,
		"max_blank_lines": defaults.MaxBlankLines,
		"enabled_rules":   defaults.EnabledRules,
		"output_mode":     defaults.OutputMode,
		"suffix":          defaults.Suffix,
		"output_dir":      defaults.OutputDir,
		"overwrite":       defaults.Overwrite,
		"io_timeout":      defaults.IOTimeout.String(),
		"jobs":            defaults.Jobs,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// 2. Config file, if any.
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), kyaml.Parser()); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file not found: %s", configPath)
			}
			return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
		}
	}

	// 3. Environment variables: PYFIX_MAX_LINE_LENGTH -> max_line_length.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	// 4. Flags. Only flags the user actually set override lower layers;
	// kebab-case flag names map to snake_case config keys.
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if !configKey(key) {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// configKey reports whether the key corresponds to a Config field. Flags
// such as --check or --quiet are runner options, not configuration.
func configKey(key string) bool {
	switch key {
	case "indent_unit", "tab_width", "max_line_length", "max_blank_lines",
		"enabled_rules", "output_mode", "suffix", "output_dir", "overwrite",
		"io_timeout", "jobs":
		return true
	}
	return false
}
