package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so config files can spell timeouts as
// "500ms" or "2s" instead of raw nanosecond counts.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(v)

	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config holds the persistent tfmpctl settings.
type Config struct {
	// Bus is the I2C adapter number of the bus the sensor hangs on.
	Bus int `yaml:"bus"`

	// Address is the sensor's 7-bit slave address.
	Address int `yaml:"address"`

	// Timeout bounds each bus read.
	Timeout Duration `yaml:"timeout"`

	// Unit is "cm" or "mm".
	Unit string `yaml:"unit"`
}

// DefaultConfig returns the factory settings of a TFMini-Plus on the
// default Raspberry Pi I2C port.
func DefaultConfig() *Config {
	return &Config{
		Bus:     4,
		Address: 0x10,
		Timeout: Duration(500 * time.Millisecond),
		Unit:    "cm",
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tfmpctl.yaml"
	}

	return filepath.Join(home, ".config", "tfmpctl", "config.yaml")
}

// LoadConfig reads a YAML config file, falling back to defaults when the
// file does not exist.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}

		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Address < 0x01 || cfg.Address > 0x7F {
		return nil, fmt.Errorf("config address 0x%02X out of range [0x01, 0x7F]", cfg.Address)
	}
	if cfg.Unit != "cm" && cfg.Unit != "mm" {
		return nil, fmt.Errorf("config unit %q must be cm or mm", cfg.Unit)
	}

	return cfg, nil
}
