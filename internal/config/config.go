package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/wavekit/synthdeck/internal/wire"
)

// Config holds application configuration.
type Config struct {
	// PortHint is the case-insensitive substring used to find the device's
	// MIDI in and out ports. InPort/OutPort, when set, pin exact port names
	// and take precedence over the hint.
	PortHint string `json:"port_hint"`
	InPort   string `json:"in_port,omitempty"`
	OutPort  string `json:"out_port,omitempty"`

	// LogCapacity bounds the wire traffic log. Zero means the default.
	LogCapacity int `json:"log_capacity,omitempty"`

	// PresetDB is the path of the preset database. Empty means the default
	// location under the config directory.
	PresetDB string `json:"preset_db,omitempty"`
}

// configDir returns the platform-appropriate config directory.
func configDir() (string, error) {
	configHome, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configHome, "synthdeck"), nil
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, returning defaults if not found.
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return defaults(), nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.fillDefaults()
	return &cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// PresetDBPath resolves the preset database location, creating its parent
// directory if needed.
func (c *Config) PresetDBPath() (string, error) {
	if c.PresetDB != "" {
		return c.PresetDB, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "presets.db"), nil
}

func defaults() *Config {
	c := &Config{}
	c.fillDefaults()
	return c
}

func (c *Config) fillDefaults() {
	if c.PortHint == "" {
		c.PortHint = "synth"
	}
	if c.LogCapacity <= 0 {
		c.LogCapacity = wire.DefaultCapacity
	}
}
