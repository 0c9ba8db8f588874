// Package config loads settings from an optional YAML file and the
// environment. Command line flags are applied on top by each binary.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"nestedset/internal/domain"
)

// Driver names. The sqlite drivers are registered by the sqlite adapter.
const (
	DriverSQLite  = "sqlite"
	DriverSQLite3 = "sqlite3"
	DriverMemory  = "memory"
)

const (
	DefaultList     = "nodes"
	DefaultLogLevel = "warn"
)

// Environment variables
const (
	EnvConfig   = "NESTEDSET_CONFIG"
	EnvDatabase = "NESTEDSET_DB"
	EnvDriver   = "NESTEDSET_DRIVER"
	EnvList     = "NESTEDSET_LIST"
	EnvField    = "NESTEDSET_FIELD"
	EnvLogLevel = "NESTEDSET_LOG_LEVEL"
)

// Config selects the store, list and hierarchy field every binary works on.
type Config struct {
	// Database is the sqlite file. Empty means the XDG data directory.
	Database string `yaml:"database"`
	Driver   string `yaml:"driver"`
	List     string `yaml:"list"`
	Field    string `yaml:"field"`
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Driver:   DriverSQLite,
		List:     DefaultList,
		Field:    domain.DefaultFieldName,
		LogLevel: DefaultLogLevel,
	}
}

// Path returns the config file location: $NESTEDSET_CONFIG, else
// ~/.config/nestedset/config.yaml under the XDG config directory.
func Path() string {
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "nestedset", "config.yaml")
}

// Load reads the config file at Path, if any, then applies the environment.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile reads path, if it exists, then applies the environment.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	for env, dst := range map[string]*string{
		EnvDatabase: &c.Database,
		EnvDriver:   &c.Driver,
		EnvList:     &c.List,
		EnvField:    &c.Field,
		EnvLogLevel: &c.LogLevel,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
}

// Validate fills empty settings with defaults and checks the rest.
func (c *Config) Validate() error {
	def := DefaultConfig()
	if c.Driver == "" {
		c.Driver = def.Driver
	}
	if c.List == "" {
		c.List = def.List
	}
	if c.Field == "" {
		c.Field = def.Field
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}

	if !domain.IsIdentifier(c.List) {
		return fmt.Errorf("config: invalid list name %q", c.List)
	}
	if err := domain.NewField(c.Field).Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// Logger returns a text logger on w at the configured level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
