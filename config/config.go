// Package config loads viewer settings from a YAML file and provides defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cocosip/go-dicom-viewer/header"
	"github.com/cocosip/go-dicom-viewer/pixel"
)

// ErrInvalidConfig is wrapped by every Validate failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the viewer configuration loaded from YAML
type Config struct {
	Reader struct {
		// Backend selects the header parser: "go-dicom" or "suyashkumar"
		Backend string `yaml:"backend"`

		// MaxPixels limits rows*columns of a single image, 0 disables the limit
		MaxPixels int `yaml:"maxPixels"`
	} `yaml:"reader"`

	Files struct {
		// Extensions lists the file name suffixes that belong to the browsing set
		Extensions []string `yaml:"extensions"`
	} `yaml:"files"`

	Display struct {
		// Brightness is the initial brightness level, 0..255
		Brightness int `yaml:"brightness"`

		// Invert starts the viewer with inverted gray values
		Invert bool `yaml:"invert"`

		// Language selects the message language, "en" or "de"
		Language string `yaml:"language"`
	} `yaml:"display"`

	Log struct {
		// Level is one of debug, info, warn, error
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Reader.Backend = header.BackendGoDicom
	cfg.Reader.MaxPixels = 64 << 20
	cfg.Files.Extensions = []string{".dcm", ".dicom"}
	cfg.Display.Brightness = 0
	cfg.Display.Invert = false
	cfg.Display.Language = "en"
	cfg.Log.Level = "info"
	return cfg
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	switch c.Reader.Backend {
	case header.BackendGoDicom, header.BackendSuyash:
	default:
		return fmt.Errorf("%w: reader.backend %q", ErrInvalidConfig, c.Reader.Backend)
	}
	if c.Reader.MaxPixels < 0 {
		return fmt.Errorf("%w: reader.maxPixels %d is negative", ErrInvalidConfig, c.Reader.MaxPixels)
	}
	if len(c.Files.Extensions) == 0 {
		return fmt.Errorf("%w: files.extensions is empty", ErrInvalidConfig)
	}
	if c.Display.Brightness < 0 || c.Display.Brightness > pixel.MaxBrightness {
		return fmt.Errorf("%w: display.brightness %d outside 0..%d", ErrInvalidConfig, c.Display.Brightness, pixel.MaxBrightness)
	}
	switch c.Display.Language {
	case "en", "de":
	default:
		return fmt.Errorf("%w: display.language %q", ErrInvalidConfig, c.Display.Language)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel converts Log.Level to a slog level
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(c.Log.Level))); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	return level, nil
}
