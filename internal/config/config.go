// Package config handles loading and saving the project-local classguard
// configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the flat classguard configuration.
type Config struct {
	Version string `json:"version"`
	// MaxThresholdMillis is the global test timeout. A nil value disables
	// patching entirely.
	MaxThresholdMillis *int64 `json:"max_threshold_millis,omitempty"`
	// Suffixes select class names eligible for patching (without the
	// .class extension). Empty means the built-in default.
	Suffixes []string `json:"suffixes,omitempty"`
	// IgnorePatterns are regular expressions matched against the full
	// dotted class name.
	IgnorePatterns []string `json:"ignore_patterns,omitempty"`
	// Junit5 reports whether the JUnit 5 engine is on the test classpath.
	Junit5 bool `json:"junit5,omitempty"`
	// ClassesDir is the compiled test class output directory.
	ClassesDir string `json:"classes_dir,omitempty"`
	// ResourcesDir is the test resources output directory.
	ResourcesDir string `json:"resources_dir,omitempty"`
	// Classpath lists extra directories and jars searched for classes.
	Classpath []string `json:"classpath,omitempty"`
}

// DefaultSuffixes applies when the config names none.
var DefaultSuffixes = []string{"Test"}

// LoadConfig reads .classguard/config.json from the specified directory.
// Resolution order: cwd only (no home fallback).
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".classguard", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if len(cfg.Suffixes) == 0 {
		cfg.Suffixes = DefaultSuffixes
	}
	return &cfg, nil
}

// SaveConfig writes config.json to directory.
func SaveConfig(dir string, cfg *Config) error {
	cfgDir := filepath.Join(dir, ".classguard")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create .classguard dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(cfgDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
