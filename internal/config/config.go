// Package config defines the application configuration and its YAML
// persistence. Values loaded from disk pass through environment variable
// expansion and validation.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Built-in bitmap font names accepted in FontConfig.Builtin.
const (
	FontProggy    = "proggy"
	FontOrg01     = "org01"
	FontTomThumb  = "tomthumb"
	FontPicopixel = "picopixel"
)

// CategoryConfig describes one content category.
type CategoryConfig struct {
	Enabled     bool   `yaml:"enabled" json:"enabled"`
	DataFile    string `yaml:"data_file" json:"data_file"`
	DisplayName string `yaml:"display_name" json:"display_name"`
}

// FontConfig selects a font for one display element. A non-empty Path wins
// and loads a TTF face; otherwise Builtin names one of the packaged bitmap
// fonts.
type FontConfig struct {
	Builtin string  `yaml:"builtin"`
	Path    string  `yaml:"path"`
	Size    float64 `yaml:"size"`
}

// Validate validates the font configuration.
func (c *FontConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Builtin, validation.In(FontProggy, FontOrg01, FontTomThumb, FontPicopixel, "")),
		validation.Field(&c.Size, validation.Min(0.0)),
	)
}

// DisplayConfig holds the panel geometry and the desktop window scale.
type DisplayConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Scale  int `yaml:"scale"`
}

// Validate validates the display configuration.
func (c *DisplayConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Width, validation.Required, validation.Min(8), validation.Max(1024)),
		validation.Field(&c.Height, validation.Required, validation.Min(8), validation.Max(1024)),
	)
}

// HTTPConfig holds the management API listen settings.
type HTTPConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Address returns the HTTP listen address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// Config represents the application configuration.
type Config struct {
	LogLevel slog.Level    `yaml:"log_level"`
	Display  DisplayConfig `yaml:"display"`
	HTTP     HTTPConfig    `yaml:"http"`

	// DataDir is where the per-category JSON calendars live.
	DataDir string `yaml:"data_dir"`

	Categories    map[string]CategoryConfig `yaml:"categories"`
	CategoryOrder []string                  `yaml:"category_order"`

	// Intervals are in seconds, matching the on-disk format.
	DisplayRotateInterval  float64 `yaml:"display_rotate_interval"`
	SubtitleRotateInterval float64 `yaml:"subtitle_rotate_interval"`
	UpdateInterval         float64 `yaml:"update_interval"`

	TitleFont FontConfig `yaml:"title_font"`
	BodyFont  FontConfig `yaml:"body_font"`
}

// Default returns the configuration defaults used when a field is absent.
func Default() *Config {
	return &Config{
		LogLevel: slog.LevelInfo,
		Display:  DisplayConfig{Width: 64, Height: 32, Scale: 8},
		HTTP:     HTTPConfig{Enabled: false, Port: 8808},
		DataDir:  "of_the_day",

		Categories:    map[string]CategoryConfig{},
		CategoryOrder: nil,

		UpdateInterval:         3600,
		DisplayRotateInterval:  20,
		SubtitleRotateInterval: 10,

		TitleFont: FontConfig{Builtin: FontProggy},
		BodyFont:  FontConfig{Builtin: FontTomThumb},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Display.Validate(); err != nil {
		return err
	}
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	if err := c.TitleFont.Validate(); err != nil {
		return err
	}
	if err := c.BodyFont.Validate(); err != nil {
		return err
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.DataDir, validation.Required),
		validation.Field(&c.DisplayRotateInterval, validation.Required, validation.Min(0.001)),
		validation.Field(&c.SubtitleRotateInterval, validation.Required, validation.Min(0.001)),
		validation.Field(&c.UpdateInterval, validation.Required, validation.Min(0.001)),
	); err != nil {
		return err
	}
	for name := range c.Categories {
		if name == "" {
			return fmt.Errorf("category with empty name")
		}
	}
	return nil
}

// DisplayRotateEvery returns the category rotation interval as a duration.
func (c *Config) DisplayRotateEvery() time.Duration {
	return secondsToDuration(c.DisplayRotateInterval)
}

// SubtitleRotateEvery returns the TITLE/CONTENT toggle interval as a duration.
func (c *Config) SubtitleRotateEvery() time.Duration {
	return secondsToDuration(c.SubtitleRotateInterval)
}

// UpdateEvery returns the dataset refresh interval as a duration.
func (c *Config) UpdateEvery() time.Duration {
	return secondsToDuration(c.UpdateInterval)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Load reads YAML from path into cfg with environment variable expansion,
// then validates the result.
func Load(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Save writes cfg to path as YAML via a temp file and rename, so a crashed
// write never leaves a truncated config behind.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp config: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp config: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}
