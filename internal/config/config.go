// Package config handles configuration loading for the traceroute mapper.
package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults used when neither the configuration file nor flags set a value.
const (
	DefaultEndpoint    = "https://ipinfo.io/{ip}/geo"
	DefaultTileURL     = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	DefaultAttribution = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`
	DefaultZoom        = 4
	DefaultTimeout     = 2 * time.Minute
)

// Config represents the root configuration file structure.
// A nil Timeout is unset; an explicit zero waits forever.
type Config struct {
	Endpoint    string         `yaml:"endpoint,omitempty"`
	Token       string         `yaml:"token,omitempty"`
	TileURL     string         `yaml:"tile_url,omitempty"`
	Attribution string         `yaml:"attribution,omitempty"`
	Traceroute  string         `yaml:"traceroute,omitempty"`
	Timeout     *time.Duration `yaml:"timeout,omitempty"`
	Zoom        int            `yaml:"zoom,omitempty"`
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

// LoadOptional behaves like Load but returns an empty configuration
// when the file does not exist.
func LoadOptional(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}

	return cfg, err
}

// ApplyDefaults fills every unset field with its default value.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.TileURL == "" {
		c.TileURL = DefaultTileURL
	}
	if c.Attribution == "" {
		c.Attribution = DefaultAttribution
	}
	if c.Traceroute == "" {
		c.Traceroute = "traceroute"
	}
	if c.Zoom <= 0 {
		c.Zoom = DefaultZoom
	}
	if c.Timeout == nil {
		timeout := DefaultTimeout
		c.Timeout = &timeout
	} else if *c.Timeout < 0 {
		timeout := time.Duration(0)
		c.Timeout = &timeout
	}
}
