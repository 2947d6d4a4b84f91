// Package config loads nightsky settings from a TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/gincla/nightsky/pkg/errors"
)

const appName = "nightsky"

// Config holds nightsky configuration.
type Config struct {
	Canvas    CanvasConfig    `toml:"canvas"`
	Loader    LoaderConfig    `toml:"loader"`
	Cache     CacheConfig     `toml:"cache"`
	Render    RenderConfig    `toml:"render"`
	Selection SelectionConfig `toml:"selection"`
	Filter    FilterConfig    `toml:"filter"`
	Server    ServerConfig    `toml:"server"`
}

// CanvasConfig sets the fixed drawing surface size.
type CanvasConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// LoaderConfig controls how sky documents are fetched.
type LoaderConfig struct {
	BaseURL string        `toml:"base_url"`
	Retries int           `toml:"retries"` // total attempts, 1 = no retry
	Timeout time.Duration `toml:"timeout"` // 0 = none
}

// CacheConfig selects where fetched documents are cached.
type CacheConfig struct {
	Backend string        `toml:"backend"` // "none", "file", "redis"
	Dir     string        `toml:"dir"`
	TTL     time.Duration `toml:"ttl"`
	Redis   RedisConfig   `toml:"redis"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// RenderConfig sets colors and the random seed.
type RenderConfig struct {
	LinkColor  string `toml:"link_color"`
	NodeFill   string `toml:"node_fill"`
	NodeStroke string `toml:"node_stroke"`
	Background string `toml:"background"`
	Seed       uint64 `toml:"seed"`
}

// SelectionConfig tunes click hit-testing.
type SelectionConfig struct {
	Threshold float64 `toml:"threshold"`
}

// FilterConfig holds the initial filter values.
type FilterConfig struct {
	Min string `toml:"min"`
	Max string `toml:"max"`
}

// ServerConfig controls the HTTP host.
type ServerConfig struct {
	Addr         string        `toml:"addr"`
	TickInterval time.Duration `toml:"tick_interval"`
	MaxSessions  int           `toml:"max_sessions"`
	IdleTimeout  time.Duration `toml:"idle_timeout"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{Width: 960, Height: 600},
		Loader: LoaderConfig{
			BaseURL: "https://raw.githubusercontent.com/gincla/nightsky/master/lib/",
			Retries: 1,
		},
		Cache: CacheConfig{
			Backend: "none",
			TTL:     time.Hour,
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		Render: RenderConfig{
			LinkColor:  "#aaa",
			NodeFill:   "#fff",
			NodeStroke: "#fff",
			Background: "#000",
		},
		Selection: SelectionConfig{Threshold: 50},
		Filter:    FilterConfig{Min: "0", Max: "0"},
		Server: ServerConfig{
			Addr:         ":8080",
			TickInterval: 16 * time.Millisecond,
			MaxSessions:  64,
			IdleTimeout:  30 * time.Minute,
		},
	}
}

// Dir returns the nightsky config directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName)
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config at path, or at Path when path is empty. A missing
// file yields the defaults; a malformed one is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = Path()
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if err := errors.ValidateURL(c.Loader.BaseURL); err != nil {
		return fmt.Errorf("loader.base_url: %w", err)
	}
	if c.Loader.Retries < 1 {
		return fmt.Errorf("loader.retries must be at least 1, got %d", c.Loader.Retries)
	}
	switch c.Cache.Backend {
	case "", "none", "file", "redis":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Selection.Threshold <= 0 {
		return fmt.Errorf("selection.threshold must be positive, got %g", c.Selection.Threshold)
	}
	return nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
