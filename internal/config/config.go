// Package config handles workspace configuration for gtscheck.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the workspace config file, looked up at the workspace root.
const FileName = ".gtscheck.toml"

// MetaDirName is the directory reserved for this tool's own metadata
// (index snapshot). Files under it are never ingested.
const MetaDirName = ".gtscheck"

// Config represents the workspace configuration.
type Config struct {
	// Exclude lists doublestar patterns for paths skipped during ingestion,
	// in addition to the metadata directory.
	Exclude []string `toml:"exclude"`

	// Extensions overrides the candidate-file extension allow-list.
	Extensions []string `toml:"extensions"`

	// DisableSchemaExec keeps only reference-integrity results, for hosts
	// whose security policy forbids dynamic schema execution.
	DisableSchemaExec bool `toml:"disable_schema_exec"`

	// DefaultFile is the initially preferred file, if any.
	DefaultFile string `toml:"default_file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Exclude:    []string{MetaDirName + "/**", "**/" + MetaDirName + "/**"},
		Extensions: []string{".json", ".jsonc", ".yaml", ".yml"},
	}
}

// Load loads the configuration from the workspace root. Returns the default
// config if the file doesn't exist.
func Load(root string) (*Config, error) {
	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from a specific path. Fields left unset
// keep their defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}
