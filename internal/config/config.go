// Package config provides configuration loading for owlrdf.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/Benny93/owlrdf-go/internal/vocab"
)

// Config represents the complete owlrdf configuration
type Config struct {
	// Vocabulary is a preset name (owl2, owl11) or a path to a vocabulary table
	Vocabulary string        `yaml:"vocabulary"`
	Parse      ParseConfig   `yaml:"parse"`
	Storage    StorageConfig `yaml:"storage"`
	Metrics    MetricsConfig `yaml:"metrics"`
	Log        LogConfig     `yaml:"log"`
}

// ParseConfig configures how documents are parsed
type ParseConfig struct {
	// MaxDepth bounds nested class-expression translation
	MaxDepth int `yaml:"max_depth"`
	// Workers is the number of documents parsed in parallel
	Workers int `yaml:"workers"`
	// Include lists doublestar globs of files to parse, relative to the root
	Include []string `yaml:"include"`
}

// StorageConfig configures where parse results are kept
type StorageConfig struct {
	// Dir is the state directory, relative to the project root
	Dir string `yaml:"dir"`
}

// MetricsConfig configures the prometheus endpoint
type MetricsConfig struct {
	// Addr is the listen address for /metrics (empty = disabled)
	Addr string `yaml:"addr"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Vocabulary: "owl2",
		Parse: ParseConfig{
			MaxDepth: 128,
			Workers:  4,
			Include:  []string{"**/*.nt"},
		},
		Storage: StorageConfig{
			Dir: ".owlrdf",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Vocabulary == "" {
		return fmt.Errorf("vocabulary is required")
	}
	if c.Parse.MaxDepth < 1 {
		return fmt.Errorf("parse.max_depth must be positive")
	}
	if c.Parse.Workers < 1 {
		return fmt.Errorf("parse.workers must be positive")
	}
	if len(c.Parse.Include) == 0 {
		return fmt.Errorf("parse.include needs at least one pattern")
	}
	for _, p := range c.Parse.Include {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("parse.include: invalid pattern %q", p)
		}
	}
	if c.Storage.Dir == "" {
		return fmt.Errorf("storage.dir is required")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file over the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Vocabulary != "" {
		c.Vocabulary = other.Vocabulary
	}

	// Parse
	if other.Parse.MaxDepth != 0 {
		c.Parse.MaxDepth = other.Parse.MaxDepth
	}
	if other.Parse.Workers != 0 {
		c.Parse.Workers = other.Parse.Workers
	}
	if len(other.Parse.Include) > 0 {
		c.Parse.Include = other.Parse.Include
	}

	if other.Storage.Dir != "" {
		c.Storage.Dir = other.Storage.Dir
	}
	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}

// LoadVocabulary resolves the configured vocabulary. Relative file paths are
// taken relative to root.
func (c *Config) LoadVocabulary(root string) (*vocab.Vocabulary, error) {
	if v, err := vocab.ByName(c.Vocabulary); err == nil {
		return v, nil
	}
	path := c.Vocabulary
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	return vocab.Load(path)
}

// StateDir returns the absolute state directory for a project root.
func (c *Config) StateDir(root string) string {
	if filepath.IsAbs(c.Storage.Dir) {
		return c.Storage.Dir
	}
	return filepath.Join(root, c.Storage.Dir)
}

// NewLogger builds a text logger on stderr at the configured level.
func (c *Config) NewLogger() *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log.level: unknown level %q", s)
	}
}
