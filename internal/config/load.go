package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working and user config
// directories.
const FileName = "orrery.yaml"

// Load loads configuration from the process command line with priority:
// defaults < file < flags.
func Load() (*Config, error) {
	return LoadWith(cli)
}

// LoadWith is Load with explicit flags. The result is validated.
func LoadWith(f *Flags) (*Config, error) {
	cfg := Default()

	path := f.Config
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := LoadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	f.Apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFile merges a YAML file into cfg. Keys not in the file keep their
// current values, and a list in the file replaces the list in cfg.
// Unknown keys are errors so that typos do not go unnoticed.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	candidates := []string{FileName}
	if dir := ConfigDir(); dir != "" {
		candidates = append(candidates, filepath.Join(dir, FileName))
	}

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user config directory, or "" when the platform
// has none.
func ConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "orrery")
}
