package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 8090 {
		t.Errorf("Expected default port 8090, got %d", cfg.Server.Port)
	}
	if cfg.Processing.QueuePollSeconds != 5 {
		t.Errorf("Expected default poll interval 5s, got %d", cfg.Processing.QueuePollSeconds)
	}
}

func TestLoadConfig_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
server:
  port: 9999
processing:
  storeLatencyMs: 0
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Expected port 9999, got %d", cfg.Server.Port)
	}
	if cfg.Processing.StoreLatencyMs != 0 {
		t.Errorf("Expected latency override 0, got %d", cfg.Processing.StoreLatencyMs)
	}
	// Keys absent from the document keep their defaults.
	if cfg.Server.BindAddress != "0.0.0.0" {
		t.Errorf("Expected default bind address, got %q", cfg.Server.BindAddress)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected parse error")
	}
}

func TestGetServerAddr(t *testing.T) {
	cfg := DefaultConfig()
	if addr := cfg.GetServerAddr(); addr != "0.0.0.0:8090" {
		t.Errorf("GetServerAddr = %q", addr)
	}
}

func TestEnsureDirectories(t *testing.T) {
	tmp := t.TempDir()
	cfg := DefaultConfig()
	cfg.Storage.DataDirectory = filepath.Join(tmp, "data")
	cfg.Storage.AudioDirectory = filepath.Join(tmp, "data", "audio")
	cfg.Storage.SettingsFile = filepath.Join(tmp, "data", "settings.json")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if _, err := os.Stat(cfg.Storage.AudioDirectory); err != nil {
		t.Errorf("Expected audio directory created: %v", err)
	}
}
