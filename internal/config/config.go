// Package config loads emojioverlay settings from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"emojioverlay/internal/overlay"
	"emojioverlay/pkg/colorutil"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	Surface SurfaceConfig `yaml:"surface"`
	Overlay OverlayConfig `yaml:"overlay"`
	Font    FontConfig    `yaml:"font"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Export  ExportConfig  `yaml:"export"`
	Log     LogConfig     `yaml:"log"`
}

// SurfaceConfig controls drawing surface dimensions.
type SurfaceConfig struct {
	MaxWidth      int `yaml:"max_width"`
	DefaultWidth  int `yaml:"default_width"`
	DefaultHeight int `yaml:"default_height"`
}

// OverlayConfig sets the initial overlay and the picker entries.
type OverlayConfig struct {
	DefaultIdentity overlay.Identity `yaml:"default_identity"`
	DefaultX        *float64         `yaml:"default_x"` // nil means 50; 0 is a valid position
	DefaultY        *float64         `yaml:"default_y"`
	DefaultSize     int              `yaml:"default_size"`
	DefaultMaxSize  int              `yaml:"default_max_size"` // upper size bound before an image is loaded
	Color           string           `yaml:"color"`            // glyph fill, "#rrggbb"
	Options         []overlay.Option `yaml:"options"`
}

// FontConfig selects the glyph font.
type FontConfig struct {
	Path string `yaml:"path"` // OpenType/TrueType file; empty uses Go Regular
}

// FetchConfig bounds remote overlay downloads.
type FetchConfig struct {
	Timeout  time.Duration `yaml:"timeout"`
	MaxBytes int64         `yaml:"max_bytes"`
}

// ExportConfig names the exported file.
type ExportConfig struct {
	Filename string `yaml:"filename"`
}

// LogConfig sets the log level: debug, info, warn or error.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML configuration file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML data, fills defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Surface.MaxWidth == 0 {
		c.Surface.MaxWidth = 600
	}
	if c.Surface.DefaultWidth == 0 {
		c.Surface.DefaultWidth = 600
	}
	if c.Surface.DefaultHeight == 0 {
		c.Surface.DefaultHeight = 400
	}
	if len(c.Overlay.Options) == 0 {
		c.Overlay.Options = overlay.DefaultOptions()
	}
	if c.Overlay.DefaultIdentity == "" {
		c.Overlay.DefaultIdentity = c.Overlay.Options[0].Value
	}
	if c.Overlay.DefaultX == nil {
		c.Overlay.DefaultX = ptr(50.0)
	}
	if c.Overlay.DefaultY == nil {
		c.Overlay.DefaultY = ptr(50.0)
	}
	if c.Overlay.DefaultSize == 0 {
		c.Overlay.DefaultSize = 50
	}
	if c.Overlay.DefaultMaxSize == 0 {
		c.Overlay.DefaultMaxSize = 100
	}
	if c.Overlay.Color == "" {
		c.Overlay.Color = "#000000"
	}
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = 10 * time.Second
	}
	if c.Fetch.MaxBytes == 0 {
		c.Fetch.MaxBytes = 4 << 20
	}
	if c.Export.Filename == "" {
		c.Export.Filename = "emoji_image.png"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Surface.MaxWidth < 0, c.Surface.DefaultWidth < 0, c.Surface.DefaultHeight < 0:
		return fmt.Errorf("surface dimensions must be positive")
	case c.Overlay.DefaultSize < 0, c.Overlay.DefaultMaxSize < 0:
		return fmt.Errorf("overlay sizes must be positive")
	case c.Fetch.Timeout < 0 || c.Fetch.MaxBytes < 0:
		return fmt.Errorf("fetch limits must be positive")
	case strings.ContainsAny(c.Export.Filename, `/\`):
		return fmt.Errorf("export filename %q must not contain a path", c.Export.Filename)
	}
	col, err := colorutil.ParseHex(c.Overlay.Color)
	if err != nil {
		return fmt.Errorf("overlay color: %w", err)
	}
	c.Overlay.Color = colorutil.Hex(col)
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// OverlayPosition returns the configured initial overlay position.
func (c *Config) OverlayPosition() (x, y float64) {
	if c.Overlay.DefaultX != nil {
		x = *c.Overlay.DefaultX
	}
	if c.Overlay.DefaultY != nil {
		y = *c.Overlay.DefaultY
	}
	return x, y
}

func ptr[T any](v T) *T {
	return &v
}

// GlyphColor returns the parsed overlay glyph color.
func (c *Config) GlyphColor() color.NRGBA {
	col, err := colorutil.ParseHex(c.Overlay.Color)
	if err != nil {
		return colorutil.Black
	}
	return col
}
