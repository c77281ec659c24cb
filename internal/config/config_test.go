package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kanban.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
  shutdown_timeout: 10s
database:
  path: /tmp/board.db
board:
  collection: sprint
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected addr :9090, got %q", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected 10s shutdown, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Server.StaticDir != "web/dist" {
		t.Errorf("expected default static dir kept, got %q", cfg.Server.StaticDir)
	}
	if cfg.Database.Path != "/tmp/board.db" {
		t.Errorf("unexpected db path %q", cfg.Database.Path)
	}
	if cfg.Board.Collection != "sprint" {
		t.Errorf("unexpected collection %q", cfg.Board.Collection)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log config %+v", cfg.Log)
	}
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Board.Collection != "tasks" {
		t.Errorf("expected default collection, got %q", cfg.Board.Collection)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("KANBAN_ADDR", ":7000")
	t.Setenv("KANBAN_DB_PATH", "env.db")
	t.Setenv("KANBAN_COLLECTION", "envtasks")
	t.Setenv("KANBAN_LOG_LEVEL", "warn")
	t.Setenv("KANBAN_SHUTDOWN_TIMEOUT", "1s")

	cfg, err := Load(writeConfig(t, "server:\n  addr: \":9090\"\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Addr != ":7000" {
		t.Errorf("expected env addr, got %q", cfg.Server.Addr)
	}
	if cfg.Database.Path != "env.db" || cfg.Board.Collection != "envtasks" || cfg.Log.Level != "warn" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if cfg.Server.ShutdownTimeout != time.Second {
		t.Errorf("expected 1s, got %v", cfg.Server.ShutdownTimeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "empty addr", mutate: func(c *Config) { c.Server.Addr = "" }, errMsg: "server.addr"},
		{name: "empty db path", mutate: func(c *Config) { c.Database.Path = " " }, errMsg: "database.path"},
		{name: "empty collection", mutate: func(c *Config) { c.Board.Collection = "" }, errMsg: "board.collection"},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "loud" }, errMsg: "log.level"},
		{name: "bad format", mutate: func(c *Config) { c.Log.Format = "xml" }, errMsg: "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Fatalf("expected error containing %q, got %v", tt.errMsg, err)
			}
		})
	}
}

func TestNewLogger_RespectsLevelAndFormat(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "warn"
	cfg.Log.Format = "json"

	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("expected JSON warn line, got %s", out)
	}
}
