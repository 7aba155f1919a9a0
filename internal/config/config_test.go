package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDirContainsAppName(t *testing.T) {
	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error = %v", err)
	}
	if !strings.Contains(dir, "arrdash") {
		t.Errorf("Dir() = %v, should contain 'arrdash'", dir)
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if !cfg.Features.Requestarr || !cfg.Features.MediaHunt {
		t.Errorf("default features = %+v, want requestarr and media hunt enabled", cfg.Features)
	}
	if cfg.Role != RoleAdmin {
		t.Errorf("default role = %q, want admin", cfg.Role)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.ServerURL = "http://127.0.0.1:9705"
	cfg.Role = RoleUser
	cfg.Features.LowUsageMode = true
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if loaded.ServerURL != cfg.ServerURL || loaded.Role != RoleUser {
		t.Errorf("loaded = %+v", loaded)
	}
	if !loaded.Features.LowUsageMode {
		t.Error("LowUsageMode lost in round trip")
	}

	// The saved file carries the explanatory header.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# arrdash client configuration") {
		t.Error("saved config missing header comment")
	}
}

func TestLoadFromRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 9\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() should reject unsupported versions")
	}
}

func TestFlagsMap(t *testing.T) {
	cfg := Default()
	cfg.Features.Requestarr = false
	flags := cfg.Flags()

	if flags[FlagRequestarr] {
		t.Error("requestarr flag should be off")
	}
	if !flags[FlagMediaHunt] {
		t.Error("media_hunt flag should be on")
	}
	if flags[FlagLowUsage] {
		t.Error("low_usage_mode flag should be off by default")
	}
}
