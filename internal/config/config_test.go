package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Viewer.Width != 1024 {
		t.Errorf("expected width 1024, got %d", cfg.Viewer.Width)
	}
	if cfg.Viewer.TargetFPS != 60 {
		t.Errorf("expected target fps 60, got %d", cfg.Viewer.TargetFPS)
	}
	if !cfg.Viewer.AutoRotate {
		t.Error("expected auto_rotate to be true by default")
	}
	if cfg.Thumbnail.Size != 256 {
		t.Errorf("expected thumbnail size 256, got %d", cfg.Thumbnail.Size)
	}
	if cfg.Library.Listen != "127.0.0.1:8737" {
		t.Errorf("unexpected listen address %s", cfg.Library.Listen)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "meshvault.yaml")

	yamlContent := `
viewer:
  width: 1920
  height: 1080
  fullscreen: true
  auto_rotate: false

thumbnail:
  size: 512

library:
  root: /srv/models
  listen: ":9000"

logging:
  level: "debug"
  log_file: "meshvault.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Viewer.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Viewer.Width)
	}
	if !cfg.Viewer.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Viewer.AutoRotate {
		t.Error("expected auto_rotate to be false")
	}
	// Unset values keep their defaults
	if cfg.Viewer.TargetFPS != 60 {
		t.Errorf("expected default target fps 60, got %d", cfg.Viewer.TargetFPS)
	}
	if cfg.Thumbnail.Size != 512 {
		t.Errorf("expected thumbnail size 512, got %d", cfg.Thumbnail.Size)
	}
	if cfg.Library.Root != "/srv/models" {
		t.Errorf("expected root /srv/models, got %s", cfg.Library.Root)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
viewer:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/meshvault.yaml"); err == nil {
		t.Error("expected error loading missing explicit file, got nil")
	}
}

func TestLoadNoFileUsesDefaults(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)
	os.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load with no config file failed: %v", err)
	}
	if cfg.Viewer.Width != Default().Viewer.Width {
		t.Error("expected defaults when no config file exists")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "sub", "meshvault.yaml")

	cfg := Default()
	cfg.Thumbnail.Size = 333
	cfg.Library.Root = "/tmp/models"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading saved config failed: %v", err)
	}
	if loaded.Thumbnail.Size != 333 {
		t.Errorf("expected thumbnail size 333, got %d", loaded.Thumbnail.Size)
	}
	if loaded.Library.Root != "/tmp/models" {
		t.Errorf("expected root /tmp/models, got %s", loaded.Library.Root)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}
