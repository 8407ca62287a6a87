// Package config loads the daemon's declarative desired-state
// configuration (listen address, plugin base directory, and the set of
// plugins to load with their parameters) from YAML, and watches the
// config file for changes, grounded on the teacher's fsnotify-based
// certificate reload pattern (internal/cert.Manager).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PluginConfig describes one plugin to load at startup: its module path
// in `a::b::c` form, its poll interval and timeout (§4.3.2's Config),
// and arbitrary string parameters, which the daemon stores as the loaded
// plugin's Config.UserData.
type PluginConfig struct {
	Name     string            `yaml:"name"`
	Interval string            `yaml:"interval,omitempty"`
	Timeout  string            `yaml:"timeout,omitempty"`
	Params   map[string]string `yaml:"params,omitempty"`
}

// Config is the daemon's top-level desired state.
type Config struct {
	ListenAddress string         `yaml:"listen_address"`
	PluginBaseDir string         `yaml:"plugin_base_dir"`
	Plugins       []PluginConfig `yaml:"plugins"`
}

// Load reads and parses the YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.ListenAddress == "" {
		return nil, fmt.Errorf("config: listen_address is required")
	}
	return &cfg, nil
}
