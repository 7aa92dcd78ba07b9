package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsonenv/internal/flattener"
	"github.com/mcncl/jsonenv/internal/formatter"
)

// Config represents the complete configuration for jsonenv
type Config struct {
	KeySeparator   string `yaml:"key_separator"`
	ArraySeparator string `yaml:"array_separator"`
	EnumerateArray bool   `yaml:"enumerate_array"`
	Format         string `yaml:"format"`
	Rename         string `yaml:"rename"`
	Prefix         string `yaml:"prefix"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		KeySeparator:   "__",
		ArraySeparator: ",",
		EnumerateArray: false,
		Format:         formatter.StyleRaw,
		Rename:         flattener.RenameNone,
	}
}

// LoadConfig loads configuration from a YAML file, layered over the defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsonenv.yml", ".jsonenv.yaml", "jsonenv.yml", "jsonenv.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks the configuration invariants: a non-empty key separator,
// a known rename mode and a known output style.
func (c *Config) Validate() error {
	if err := c.Options().Validate(); err != nil {
		return err
	}
	return formatter.ValidateStyle(c.Format)
}

// Options converts the configuration into flattener options
func (c *Config) Options() flattener.Options {
	return flattener.Options{
		KeySeparator:   c.KeySeparator,
		ArraySeparator: c.ArraySeparator,
		EnumerateArray: c.EnumerateArray,
		Rename:         c.Rename,
		Prefix:         c.Prefix,
	}
}

// LoadConfigWithCLI loads config with CLI argument precedence.
// String flags override the config file only when they differ from the
// built-in defaults; boolean flags override when set, since an unset flag and
// a false flag are indistinguishable here.
func LoadConfigWithCLI(configPath, keySeparator, arraySeparator, format, rename, prefix string, enumerateArray bool) (*Config, error) {
	cfg := NewConfig()
	defaults := NewConfig()

	// Load config file if provided, otherwise discover one
	if configPath == "" {
		configPath = FindConfigFile()
	}
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if keySeparator != defaults.KeySeparator {
		cfg.KeySeparator = keySeparator
	}
	if arraySeparator != defaults.ArraySeparator {
		cfg.ArraySeparator = arraySeparator
	}
	if format != defaults.Format {
		cfg.Format = format
	}
	if rename != defaults.Rename {
		cfg.Rename = rename
	}
	if prefix != defaults.Prefix {
		cfg.Prefix = prefix
	}
	if enumerateArray {
		cfg.EnumerateArray = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
