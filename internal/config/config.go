// Package config loads the optional tappval configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tahmarrrr23/tappval/internal/model"
	"gopkg.in/yaml.v3"
)

// Config holds settings shared by the CLI, the HTTP viewer and the MCP server.
type Config struct {
	// Endpoint is the analysis engine URL; the target is passed as ?url=.
	Endpoint string `yaml:"endpoint"`
	// Timeout bounds one engine request. 0 leaves it to the caller's context.
	Timeout time.Duration `yaml:"timeout"`
	// CacheTTL keeps analysis results per target URL. 0 disables caching,
	// so every analysis asks the engine for a fresh capture.
	CacheTTL time.Duration `yaml:"cacheTTL"`
	Listen   string        `yaml:"listen"`
	LogLevel string        `yaml:"logLevel"`
	// Device fills in a result whose device is missing or incomplete.
	Device model.Device `yaml:"device"`
}

// DefaultDevice is the viewport the capture engine emulates.
var DefaultDevice = model.Device{Width: 390, Height: 844, ScaleFactor: 3, PPI: 460}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Endpoint: "http://localhost:3000/api/analyze",
		Listen:   ":8080",
		LogLevel: "info",
		Device:   DefaultDevice,
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
// Fields missing from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values a file may have set to something unusable.
func (c Config) Validate() error {
	var errs []error
	if c.Endpoint == "" {
		errs = append(errs, errors.New("endpoint is empty"))
	}
	if c.Timeout < 0 {
		errs = append(errs, errors.New("timeout must not be negative"))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, errors.New("cacheTTL must not be negative"))
	}
	if c.Device.Width <= 0 || c.Device.Height <= 0 {
		errs = append(errs, fmt.Errorf("device size %dx%d must be positive", c.Device.Width, c.Device.Height))
	}
	return errors.Join(errs...)
}
