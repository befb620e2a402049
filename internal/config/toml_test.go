package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Generate.Capacity != nil || cfg.Generate.Words != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[generate]\ncapacity = 4001\nprefix = 2\nseed = 99\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Generate.Capacity == nil || *cfg.Generate.Capacity != 4001 {
		t.Fatalf("unexpected capacity: %v", cfg.Generate.Capacity)
	}
	if cfg.Generate.Prefix == nil || *cfg.Generate.Prefix != 2 {
		t.Fatalf("unexpected prefix: %v", cfg.Generate.Prefix)
	}
	if cfg.Generate.Seed == nil || *cfg.Generate.Seed != 99 {
		t.Fatalf("unexpected seed: %v", cfg.Generate.Seed)
	}
	if cfg.Generate.Words != nil {
		t.Fatalf("expected words to stay unset")
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[generate]\nprefx = 2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "prefx") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "hashmarkov", "config.toml") {
		t.Fatalf("unexpected config path %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/tmp/data", "hashmarkov", "hashmarkov.db") {
		t.Fatalf("unexpected db path %s", got)
	}
}
