// Package config handles configuration loading and validation for icontitle.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	FileNotFound    ConfigErrorType = "FILE_NOT_FOUND"
	InvalidJSON     ConfigErrorType = "INVALID_JSON"
	ValidationError ConfigErrorType = "VALIDATION_ERROR"
)

// ConfigError represents an error that occurred during configuration loading.
type ConfigError struct {
	Type    ConfigErrorType
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case FileNotFound:
		if e.Message != "" {
			return fmt.Sprintf("configuration file not found: %s: %s", e.Path, e.Message)
		}
		return fmt.Sprintf("configuration file not found: %s", e.Path)
	case InvalidJSON:
		return fmt.Sprintf("invalid JSON in configuration file: %s", e.Message)
	case ValidationError:
		return fmt.Sprintf("configuration validation error: %s", e.Message)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

// Default file locations and asset list key.
const (
	DefaultReferenceFile = "example.json"
	DefaultCatalogFile   = "military.json"
	DefaultOutputFile    = "military_with_title.json"
	DefaultAssetsKey     = "svgs"
	DefaultDebounceMs    = 500
	DefaultStabilityMs   = 200
)

// WatchConfig holds settings for watch mode.
type WatchConfig struct {
	DebounceMs  int `json:"debounceMs,omitempty"`
	StabilityMs int `json:"stabilityMs,omitempty"` // input must stay unchanged this long before a run
}

// Debounce returns the debounce delay as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// Stability returns how long an input file must stay unchanged before a run.
func (w WatchConfig) Stability() time.Duration {
	return time.Duration(w.StabilityMs) * time.Millisecond
}

// Configuration holds all settings for icontitle.
type Configuration struct {
	ReferenceFile string      `json:"referenceFile"`
	CatalogFile   string      `json:"catalogFile"`
	OutputFile    string      `json:"outputFile"`
	AssetsKey     string      `json:"assetsKey"`
	Watch         WatchConfig `json:"watch"`
}

// Default returns a Configuration with every field set to its default.
func Default() *Configuration {
	cfg := &Configuration{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills empty fields with their defaults.
func (c *Configuration) ApplyDefaults() {
	if c.ReferenceFile == "" {
		c.ReferenceFile = DefaultReferenceFile
	}
	if c.CatalogFile == "" {
		c.CatalogFile = DefaultCatalogFile
	}
	if c.OutputFile == "" {
		c.OutputFile = DefaultOutputFile
	}
	if c.AssetsKey == "" {
		c.AssetsKey = DefaultAssetsKey
	}
	if c.Watch.DebounceMs == 0 {
		c.Watch.DebounceMs = DefaultDebounceMs
	}
	if c.Watch.StabilityMs == 0 {
		c.Watch.StabilityMs = DefaultStabilityMs
	}
}

// Validate checks that the configuration is usable.
func (c *Configuration) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"referenceFile", c.ReferenceFile},
		{"catalogFile", c.CatalogFile},
		{"outputFile", c.OutputFile},
		{"assetsKey", c.AssetsKey},
	}
	for _, f := range fields {
		if f.value == "" {
			return &ConfigError{
				Type:    ValidationError,
				Message: fmt.Sprintf("%s cannot be empty", f.name),
			}
		}
	}

	output := filepath.Clean(c.OutputFile)
	if output == filepath.Clean(c.ReferenceFile) || output == filepath.Clean(c.CatalogFile) {
		return &ConfigError{
			Type:    ValidationError,
			Message: fmt.Sprintf("outputFile %s must differ from both input files", c.OutputFile),
		}
	}

	if c.Watch.DebounceMs < 0 {
		return &ConfigError{
			Type:    ValidationError,
			Message: "watch.debounceMs cannot be negative",
		}
	}
	if c.Watch.StabilityMs < 0 {
		return &ConfigError{
			Type:    ValidationError,
			Message: "watch.stabilityMs cannot be negative",
		}
	}

	return nil
}

// Load reads and parses a configuration file from the given path.
// Relative file paths inside it are resolved against the file's directory.
func Load(filePath string) (*Configuration, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{
				Type: FileNotFound,
				Path: filePath,
			}
		}
		return nil, &ConfigError{
			Type:    FileNotFound,
			Path:    filePath,
			Message: err.Error(),
		}
	}

	var config Configuration
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, &ConfigError{
			Type:    InvalidJSON,
			Message: err.Error(),
		}
	}

	config.ApplyDefaults()
	config.resolveRelative(filepath.Dir(filePath))

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// resolveRelative joins relative file paths onto baseDir.
func (c *Configuration) resolveRelative(baseDir string) {
	for _, p := range []*string{&c.ReferenceFile, &c.CatalogFile, &c.OutputFile} {
		if !filepath.IsAbs(*p) {
			*p = filepath.Join(baseDir, *p)
		}
	}
}

// Save serializes and writes a configuration to the given path.
func Save(config *Configuration, filePath string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return &ConfigError{
			Type:    InvalidJSON,
			Message: err.Error(),
		}
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return &ConfigError{
			Type:    ValidationError,
			Message: fmt.Sprintf("failed to write configuration file: %s", err.Error()),
		}
	}

	return nil
}
