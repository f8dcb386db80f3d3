package config

import (
	"github.com/aurorakit/resdiff/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Diff    DiffConfig    `yaml:"diff"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Exclude []string      `yaml:"exclude"`
}

// DiffConfig holds comparison-related settings
type DiffConfig struct {
	// SkipDevSources omits developer script sources during
	// whole-installation comparisons
	SkipDevSources bool `yaml:"skip_dev_sources"`

	// MaxBytecodeDiffLines caps bytecode diff output per resource
	MaxBytecodeDiffLines int `yaml:"max_bytecode_diff_lines"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show progress bars
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"` // "debug", "info", "warn", "error"
	File    string `yaml:"file"`  // Log file path (empty = stderr)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Diff: DiffConfig{
			SkipDevSources:       true,
			MaxBytecodeDiffLines: 16,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			File:    "",
		},
		Exclude: []string{
			"*.tmp",
			"*.bak",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Diff.MaxBytecodeDiffLines < 0 {
		return &models.ValidationError{
			Field:   "diff.max_bytecode_diff_lines",
			Message: "must not be negative",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}
