package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Gateway.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("gateway base url = %q", cfg.Gateway.BaseURL)
	}
	if cfg.Gateway.Timeout() != 10*time.Second {
		t.Errorf("gateway timeout = %v", cfg.Gateway.Timeout())
	}
	if cfg.API.Host != "127.0.0.1" || cfg.API.Port != 7311 {
		t.Errorf("api bind = %s:%d", cfg.API.Host, cfg.API.Port)
	}
	if !cfg.API.Metrics {
		t.Error("metrics should default on")
	}
	if cfg.Profile.DefaultName != "Farmer" {
		t.Errorf("default name = %q", cfg.Profile.DefaultName)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("AGRIPATH_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.Port != 7311 {
		t.Errorf("expected default port, got %d", cfg.API.Port)
	}
}

func TestLoadConfig_ParsesOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("AGRIPATH_HOME", home)

	content := `
[gateway]
base_url = "https://profile.agripath.example"
timeout_seconds = 30

[api]
port = 9000

[profile]
default_name = "Kisan"
`
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Gateway.BaseURL != "https://profile.agripath.example" {
		t.Errorf("base url = %q", cfg.Gateway.BaseURL)
	}
	if cfg.Gateway.Timeout() != 30*time.Second {
		t.Errorf("timeout = %v", cfg.Gateway.Timeout())
	}
	if cfg.API.Port != 9000 {
		t.Errorf("port = %d", cfg.API.Port)
	}
	// Sections absent from the file keep their defaults.
	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("host = %q", cfg.API.Host)
	}
	if cfg.Profile.DefaultName != "Kisan" {
		t.Errorf("default name = %q", cfg.Profile.DefaultName)
	}
}

func TestLoadConfig_RejectsBadTimeout(t *testing.T) {
	home := t.TempDir()
	t.Setenv("AGRIPATH_HOME", home)

	content := "[gateway]\ntimeout_seconds = -5\n"
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Gateway.TimeoutSeconds != 10 {
		t.Errorf("expected clamped timeout 10, got %d", cfg.Gateway.TimeoutSeconds)
	}
}

func TestSaveConfig_Roundtrip(t *testing.T) {
	t.Setenv("AGRIPATH_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.API.Port = 8123
	cfg.Profile.DefaultName = "Grower"
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.API.Port != 8123 || loaded.Profile.DefaultName != "Grower" {
		t.Errorf("roundtrip mismatch: %+v", loaded)
	}
}
