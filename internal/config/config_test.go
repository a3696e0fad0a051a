package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	config := &Config{}
	applyDefaults(config)

	if config.Site.Name != "Blogify" {
		t.Errorf("Expected site name 'Blogify', got %q", config.Site.Name)
	}
	if config.Server.Host != "0.0.0.0" {
		t.Errorf("Expected host '0.0.0.0', got %q", config.Server.Host)
	}
	if config.Server.Port != "8080" {
		t.Errorf("Expected port '8080', got %q", config.Server.Port)
	}
	if config.Database.Path != "./blogify.db" {
		t.Errorf("Expected default database path, got %q", config.Database.Path)
	}
	if config.Storage.Bucket != "blog-images" {
		t.Errorf("Expected default bucket, got %q", config.Storage.Bucket)
	}
	if config.Content.PostsPerPage != 50 {
		t.Errorf("Expected posts per page 50, got %d", config.Content.PostsPerPage)
	}
	if config.Logging.Level != "info" {
		t.Errorf("Expected log level 'info', got %q", config.Logging.Level)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Expected defaults for missing file, got error: %v", err)
	}
	if cfg.Site.Name != "Blogify" {
		t.Errorf("Expected default site name, got %q", cfg.Site.Name)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
site:
  name: Overridden
server:
  port: "9999"
logging:
  level: debug
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Site.Name != "Overridden" {
		t.Errorf("Expected overridden site name, got %q", cfg.Site.Name)
	}
	if cfg.Server.Port != "9999" {
		t.Errorf("Expected overridden port, got %q", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected overridden log level, got %q", cfg.Logging.Level)
	}
	// Untouched sections keep their defaults.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Expected default host preserved, got %q", cfg.Server.Host)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("site: [not: valid"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}
