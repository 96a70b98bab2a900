package config

import (
	"log/slog"
	"os"
	"path/filepath"
)

// ProjectConfigFile is the name of the project-level config file
const ProjectConfigFile = "owlrdf.yaml"

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load loads configuration for the project rooted at dir:
// 1. Default config
// 2. Project config (owlrdf.yaml in dir or its parent directories)
func (l *Loader) Load(dir string) (*Config, error) {
	config := DefaultConfig()

	if path := l.findProjectConfig(dir); path != "" {
		projectConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded project config", slog.String("path", path))
		config.Merge(projectConfig)
	} else {
		l.logger.Debug("No project config found", slog.String("dir", dir))
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// findProjectConfig searches for owlrdf.yaml in dir and its parents
func (l *Loader) findProjectConfig(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(abs, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			break
		}
		abs = parent
	}
	return ""
}
