// Package daemon manages the AgriPath companion lifecycle and
// configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all companion configuration.
type Config struct {
	Gateway GatewayConfig `toml:"gateway"`
	API     APIConfig     `toml:"api"`
	Profile ProfileConfig `toml:"profile"`
	Logging LoggingConfig `toml:"logging"`
}

// GatewayConfig points at the remote profile service.
type GatewayConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the configured request timeout.
func (g GatewayConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// APIConfig controls the local HTTP facade consumed by the web UI.
type APIConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	Metrics     bool     `toml:"metrics"`
}

// ProfileConfig controls local profile behavior.
type ProfileConfig struct {
	DefaultName string `toml:"default_name"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := agripathHome()
	return Config{
		Gateway: GatewayConfig{
			BaseURL:        "http://127.0.0.1:8000",
			TimeoutSeconds: 10,
		},
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        7311,
			CORSOrigins: []string{"*"},
			Metrics:     true,
		},
		Profile: ProfileConfig{
			DefaultName: "Farmer",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "agripath.log"),
		},
	}
}

// LoadConfig reads config from ~/.agripath/config.toml, falling back to
// defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(agripathHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Gateway.TimeoutSeconds <= 0 {
		cfg.Gateway.TimeoutSeconds = 10
	}

	return cfg, nil
}

// SaveConfig writes the config to ~/.agripath/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(agripathHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// agripathHome returns the AgriPath data directory.
func agripathHome() string {
	if env := os.Getenv("AGRIPATH_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".agripath")
}

// Home is exported for use by other packages.
func Home() string {
	return agripathHome()
}
