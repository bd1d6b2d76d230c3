// Package config — .portkit.yaml configuration file support.
//
// The config file is optional: when it is absent every setting falls back to
// the conventional layout of the translations repository (values/ base file,
// values-XX/ language folders, legacy/ archive, scripts/mapping_2025.csv).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = ".portkit.yaml"

// Config is the top-level .portkit.yaml structure. All paths are relative to
// the project root.
type Config struct {
	// TranslationsDir holds the values/ and values-XX/ folders (default ".").
	TranslationsDir string `yaml:"translations_dir,omitempty"`
	// MappingFile is the key-migration CSV (default "scripts/mapping_2025.csv").
	MappingFile string `yaml:"mapping_file,omitempty"`
	// LegacyDir is where archived pre-port folders go (default "legacy").
	LegacyDir string `yaml:"legacy_dir,omitempty"`
}

// Default returns the conventional layout used when no .portkit.yaml exists.
func Default() *Config {
	return &Config{
		TranslationsDir: ".",
		MappingFile:     filepath.Join("scripts", "mapping_2025.csv"),
		LegacyDir:       "legacy",
	}
}

// Load reads .portkit.yaml from rootDir, filling defaults for any omitted
// field. A missing file is not an error — the defaults are returned.
func Load(rootDir string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if cfg.TranslationsDir == "" {
		cfg.TranslationsDir = "."
	}
	if cfg.MappingFile == "" {
		cfg.MappingFile = filepath.Join("scripts", "mapping_2025.csv")
	}
	if cfg.LegacyDir == "" {
		cfg.LegacyDir = "legacy"
	}

	return cfg, nil
}

// AbsTranslationsDir returns the translations directory under rootDir.
func (c *Config) AbsTranslationsDir(rootDir string) string {
	return filepath.Join(rootDir, c.TranslationsDir)
}

// AbsMappingFile returns the mapping CSV path under rootDir.
func (c *Config) AbsMappingFile(rootDir string) string {
	return filepath.Join(rootDir, c.MappingFile)
}

// AbsLegacyDir returns the archive directory under rootDir.
func (c *Config) AbsLegacyDir(rootDir string) string {
	return filepath.Join(rootDir, c.LegacyDir)
}
