package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"kanban/internal/util"
)

// DefaultPath is read when no config file is given. It may be absent.
const DefaultPath = "kanban.yaml"

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	StaticDir       string        `yaml:"static_dir"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type BoardConfig struct {
	Collection string `yaml:"collection"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Board    BoardConfig    `yaml:"board"`
	Log      LogConfig      `yaml:"log"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			StaticDir:       "web/dist",
			ShutdownTimeout: 5 * time.Second,
		},
		Database: DatabaseConfig{Path: "data/kanban.db"},
		Board:    BoardConfig{Collection: "tasks"},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads the YAML file at path over the defaults and applies environment
// overrides. An empty path reads DefaultPath if it exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("open config: %w", err)
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from KANBAN_* environment variables.
func (c *Config) ApplyEnv() {
	c.Server.Addr = util.EnvOrDefault("KANBAN_ADDR", c.Server.Addr)
	c.Server.StaticDir = util.EnvOrDefault("KANBAN_STATIC_DIR", c.Server.StaticDir)
	c.Server.ShutdownTimeout = util.EnvDurationOrDefault("KANBAN_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Database.Path = util.EnvOrDefault("KANBAN_DB_PATH", c.Database.Path)
	c.Board.Collection = util.EnvOrDefault("KANBAN_COLLECTION", c.Board.Collection)
	c.Log.Level = util.EnvOrDefault("KANBAN_LOG_LEVEL", c.Log.Level)
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if strings.TrimSpace(c.Board.Collection) == "" {
		return fmt.Errorf("board.collection must not be empty")
	}
	if _, err := c.level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

func (c *Config) level() (slog.Level, error) {
	var lvl slog.Level
	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// NewLogger builds the logger described by the log section.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	lvl, err := c.level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
