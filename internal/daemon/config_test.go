package daemon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 7575 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 7575)
	}
	if cfg.Timer.WorkMinutes != 25 {
		t.Errorf("Timer.WorkMinutes = %d, want 25", cfg.Timer.WorkMinutes)
	}
	if cfg.Account.ID != "local" {
		t.Errorf("Account.ID = %q, want %q", cfg.Account.ID, "local")
	}
}

func TestLoadConfig_NoFileUsesDefaults(t *testing.T) {
	t.Setenv("PULSE_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.Port != 7575 {
		t.Errorf("expected default port, got %d", cfg.API.Port)
	}
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PULSE_HOME", dir)

	content := "[api]\nport = 9000\n\n[timer]\nwork_minutes = 50\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.Port != 9000 {
		t.Errorf("API.Port = %d, want 9000", cfg.API.Port)
	}
	if cfg.Timer.WorkMinutes != 50 {
		t.Errorf("Timer.WorkMinutes = %d, want 50", cfg.Timer.WorkMinutes)
	}
	// Untouched keys keep their defaults.
	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want default", cfg.API.Host)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	t.Setenv("PULSE_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.API.Port = 8888
	cfg.Account.Name = "Ada"

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.API.Port != 8888 || loaded.Account.Name != "Ada" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}
