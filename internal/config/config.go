// Package config handles configuration loading and shared data structures.
package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	Cases     map[string]Case `yaml:"cases,omitempty" json:"cases,omitempty"`
	TilesDir  string          `yaml:"tiles_dir,omitempty" json:"-"`
	Palette   []string        `yaml:"palette,omitempty" json:"palette,omitempty"`
	Seed      uint64          `yaml:"seed,omitempty" json:"seed,omitempty"` // 0 picks a random seed per run
	ZoomLimit int             `yaml:"zoom,omitempty" json:"zoom,omitempty"`
}

// Case overrides the built-in settings of one benchmark case.
type Case struct {
	Params   map[string]Param `yaml:"params,omitempty" json:"params,omitempty"`
	Title    string           `yaml:"title,omitempty" json:"title,omitempty"`
	Disabled bool             `yaml:"disabled,omitempty" json:"disabled,omitempty"`
}

// Param overrides one parameter of a case.
//
// Values follows the parameter's own shape: two numbers and an optional
// step for numeric parameters, two strings for toggles.
type Param struct {
	Default any    `yaml:"default,omitempty" json:"default,omitempty"`
	Label   string `yaml:"label,omitempty" json:"label,omitempty"`
	Values  []any  `yaml:"values,omitempty" json:"values,omitempty"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOptional is Load that returns an empty configuration when the file
// does not exist. The boolean reports whether the file was found.
func LoadOptional(path string) (*Config, bool, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}
