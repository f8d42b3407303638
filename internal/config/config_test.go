package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != 8090 {
		t.Errorf("expected default port 8090, got %d", cfg.Server.Port)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("expected default host 0.0.0.0, got %s", cfg.Server.Host)
	}

	if cfg.Controller.MeasureQuota != 30 {
		t.Errorf("expected default measure_quota 30, got %d", cfg.Controller.MeasureQuota)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate cleanly, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	content := `
server:
  host: "127.0.0.1"
  port: 9090

controller:
  recent_alpha: 0.95
  anomaly_alpha: 0.9
  measure_quota: 50
  explore_value: 0.1
  pessimism_sd: 2.0

logging:
  level: "debug"
  format: "text"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("expected host 127.0.0.1, got %s", cfg.Server.Host)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}

	if cfg.Controller.MeasureQuota != 50 {
		t.Errorf("expected measure_quota 50, got %d", cfg.Controller.MeasureQuota)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}

	// Check that defaults are preserved for unspecified values.
	if cfg.Persistence.DataDir != "/var/lib/goblin" {
		t.Errorf("expected default data_dir to be preserved, got %s", cfg.Persistence.DataDir)
	}
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestLoadInvalidConfigFailsValidation(t *testing.T) {
	content := `
controller:
  recent_alpha: 5.0
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected validation error for recent_alpha out of range")
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg := LoadOrDefault("")
	if cfg.Server.Port != 8090 {
		t.Errorf("expected default port 8090, got %d", cfg.Server.Port)
	}

	cfg = LoadOrDefault("/nonexistent/path/config.yaml")
	if cfg.Server.Port != 8090 {
		t.Errorf("expected default port 8090, got %d", cfg.Server.Port)
	}
}
