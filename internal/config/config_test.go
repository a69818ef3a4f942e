package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Listen != ":8080" {
		t.Errorf("Listen = %q, want :8080", cfg.Listen)
	}
	if cfg.FetchTimeout() != 5*time.Second {
		t.Errorf("FetchTimeout = %v, want 5s", cfg.FetchTimeout())
	}
	if cfg.MaxUploadBytes != 32<<20 {
		t.Errorf("MaxUploadBytes = %d, want 32MiB", cfg.MaxUploadBytes)
	}
	if !cfg.CacheEnabled() {
		t.Error("cache should be enabled by default")
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canvasd.toml")
	content := `
listen = ":9090"
fetch_timeout_seconds = 10
max_sessions = 5
cache_dir = "off"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Listen != ":9090" {
		t.Errorf("Listen = %q, want :9090", cfg.Listen)
	}
	if cfg.FetchTimeout() != 10*time.Second {
		t.Errorf("FetchTimeout = %v, want 10s", cfg.FetchTimeout())
	}
	if cfg.MaxSessions != 5 {
		t.Errorf("MaxSessions = %d, want 5", cfg.MaxSessions)
	}
	if cfg.CacheEnabled() {
		t.Error("cache_dir = off should disable the cache")
	}

	// Untouched keys keep their defaults
	if cfg.MaxUploadBytes != Default().MaxUploadBytes {
		t.Errorf("MaxUploadBytes = %d, want default", cfg.MaxUploadBytes)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canvasd.toml")
	if err := os.WriteFile(path, []byte("fetch_timeout_seconds = -1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for negative fetch timeout")
	}
}
