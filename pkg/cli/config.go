package cli

import (
	"path/filepath"

	"github.com/c3i/c3i/internal/engine"
	"github.com/c3i/c3i/pkg/config"
)

// Config holds the global CLI settings shared by every command
type Config struct {
	ConfigFile string
	Verbosity  string
	Version    string
	// WorkDir resolves relative paths in the settings file; empty means the process working directory
	WorkDir string
	// Overrides replace default run dependencies, used by tests
	Overrides engine.Dependencies
}

// NewConfig creates a new CLI configuration with defaults
func NewConfig() *Config {
	return &Config{
		ConfigFile: config.DefaultConfigFile,
		Verbosity:  "info",
	}
}

func (c *Config) manager() *config.Manager {
	if c.WorkDir == "" {
		return config.NewManager()
	}
	return config.NewManagerAt(c.WorkDir)
}

func (c *Config) resolve(path string) string {
	if c.WorkDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.WorkDir, path)
}
