// Package config provides configuration loading for the pondlife server
// and batch runner.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds server and default-simulation parameters.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Sim    SimConfig    `yaml:"sim"`
	Output OutputConfig `yaml:"output"`
}

// ServerConfig holds HTTP host settings.
type ServerConfig struct {
	Port     int    `yaml:"port"`
	AdminKey string `yaml:"admin_key"` // Bearer token for POST endpoints. Empty = POSTs open.
}

// SimConfig holds the default simulation parameters used when a request or
// batch run doesn't override them.
type SimConfig struct {
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Month  int   `yaml:"month"` // Starting month, 1–12
	Seed   int64 `yaml:"seed"`  // 0 = derive a fresh seed at startup
}

// OutputConfig holds reporting sink settings.
type OutputConfig struct {
	DBPath string `yaml:"db_path"` // Metrics history database. Empty = history disabled.
	Dir    string `yaml:"dir"`     // Batch-mode CSV output directory.
}

// Load reads the embedded defaults, then overlays the YAML file at path
// when path is non-empty.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Sim.Width < 1 || c.Sim.Height < 1 {
		return fmt.Errorf("sim dimensions must be at least 1x1, got %dx%d", c.Sim.Width, c.Sim.Height)
	}
	if c.Sim.Month < 1 || c.Sim.Month > 12 {
		return fmt.Errorf("sim month must be 1-12, got %d", c.Sim.Month)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	return nil
}
