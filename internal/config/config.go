// Package config provides YAML-based server configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Processing ProcessingConfig `yaml:"processing"`
	Advanced   AdvancedConfig   `yaml:"advanced"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port           int    `yaml:"port"`
	BindAddress    string `yaml:"bindAddress"`
	EnableCORS     bool   `yaml:"enableCors"`
	AllowOrigins   string `yaml:"allowOrigins"`
	ReadTimeoutS   int    `yaml:"readTimeoutSeconds"`
	WriteTimeoutS  int    `yaml:"writeTimeoutSeconds"`
	IdleTimeoutS   int    `yaml:"idleTimeoutSeconds"`
	BodyLimit      string `yaml:"bodyLimit"`
}

// StorageConfig contains data directory settings.
type StorageConfig struct {
	DataDirectory  string `yaml:"dataDirectory"`
	AudioDirectory string `yaml:"audioDirectory"`
	SettingsFile   string `yaml:"settingsFile"`
}

// ProcessingConfig contains transcription pipeline settings.
type ProcessingConfig struct {
	WorkDurationSeconds int `yaml:"workDurationSeconds"` // simulated transcription time
	StoreLatencyMs      int `yaml:"storeLatencyMs"`      // artificial backend latency
	QueuePollSeconds    int `yaml:"queuePollSeconds"`
}

// AdvancedConfig contains tuning options.
type AdvancedConfig struct {
	EnableRequestLogging bool `yaml:"enableRequestLogging"`
	EnableCompression    bool `yaml:"enableCompression"`
	CompressionLevel     int  `yaml:"compressionLevel"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:          8090,
			BindAddress:   "0.0.0.0",
			EnableCORS:    true,
			AllowOrigins:  "*",
			ReadTimeoutS:  30,
			WriteTimeoutS: 30,
			IdleTimeoutS:  120,
			BodyLimit:     "500M",
		},
		Storage: StorageConfig{
			DataDirectory:  "./data",
			AudioDirectory: "./data/audio",
			SettingsFile:   "./data/settings.json",
		},
		Processing: ProcessingConfig{
			WorkDurationSeconds: 8,
			StoreLatencyMs:      250,
			QueuePollSeconds:    5,
		},
		Advanced: AdvancedConfig{
			EnableRequestLogging: true,
			EnableCompression:    true,
			CompressionLevel:     5,
		},
	}
}

// LoadConfig reads the YAML config at path, merging it over the defaults.
// A missing file yields the defaults.
func LoadConfig(path string) (*AppConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// EnsureDirectories creates the data directories the server needs.
func (c *AppConfig) EnsureDirectories() error {
	dirs := []string{
		c.Storage.DataDirectory,
		c.Storage.AudioDirectory,
		filepath.Dir(c.Storage.SettingsFile),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", d, err)
		}
	}
	return nil
}

// GetServerAddr returns the host:port the server listens on.
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}
