// Package config loads shelf's YAML settings
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds user settings. Zero values are filled from Default
type Config struct {
	Root           string        `yaml:"root,omitempty"`
	Port           int           `yaml:"port"`
	StaleDays      int           `yaml:"stale_days"`
	SearchDebounce time.Duration `yaml:"search_debounce"`
	NoticeTTL      time.Duration `yaml:"notice_ttl"`
	LogFile        string        `yaml:"log_file,omitempty"`
	LogLevel       string        `yaml:"log_level"`
	Remote         string        `yaml:"remote,omitempty"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Port:           8010,
		StaleDays:      30,
		SearchDebounce: 200 * time.Millisecond,
		NoticeTTL:      3 * time.Second,
		LogLevel:       "info",
	}
}

// Dir is the directory holding config.yaml
func Dir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "shelf")
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "shelf")
}

// Path is the default config file location
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads path on top of the defaults. A missing file is not an error
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed
func Save(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks ranges and paths
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range 1-65535", c.Port)
	}
	if c.StaleDays < 0 {
		return fmt.Errorf("stale_days must not be negative, got %d", c.StaleDays)
	}
	if c.SearchDebounce < 0 {
		return fmt.Errorf("search_debounce must not be negative, got %s", c.SearchDebounce)
	}
	if c.NoticeTTL < 0 {
		return fmt.Errorf("notice_ttl must not be negative, got %s", c.NoticeTTL)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.Root != "" {
		info, err := os.Stat(c.Root)
		if err != nil {
			return fmt.Errorf("root: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("root %s is not a directory", c.Root)
		}
	}
	if c.Remote != "" {
		u, err := url.Parse(c.Remote)
		if err != nil {
			return fmt.Errorf("remote: %w", err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("remote %q must be an http(s) URL", c.Remote)
		}
	}
	return nil
}
