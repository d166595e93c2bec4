// Package daemon manages the Pulse daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all daemon configuration.
type Config struct {
	Account AccountConfig `toml:"account"`
	API     APIConfig     `toml:"api"`
	Timer   TimerConfig   `toml:"timer"`
	Logging LoggingConfig `toml:"logging"`
}

// AccountConfig identifies the local CLI account. The daemon ensures it
// exists on startup; API callers supply their own account ids.
type AccountConfig struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	Metrics     bool     `toml:"metrics"`
}

// TimerConfig holds the CLI's default interval lengths in minutes.
type TimerConfig struct {
	WorkMinutes      int `toml:"work_minutes"`
	BreakMinutes     int `toml:"break_minutes"`
	LongBreakMinutes int `toml:"long_break_minutes"`
	// LongBreakEvery is how many work intervals precede a long break.
	LongBreakEvery int `toml:"long_break_every"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Account: AccountConfig{
			ID:   "local",
			Name: "Local",
		},
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        7575,
			CORSOrigins: []string{"*"},
			Metrics:     true,
		},
		Timer: TimerConfig{
			WorkMinutes:      25,
			BreakMinutes:     5,
			LongBreakMinutes: 15,
			LongBreakEvery:   4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads config from ~/.pulse/config.toml, falling back to defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(pulseHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the config to ~/.pulse/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(pulseHome(), "config.toml")
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

// pulseHome returns the Pulse data directory.
func pulseHome() string {
	if env := os.Getenv("PULSE_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".pulse")
}

// PulseHome is exported for use by other packages.
func PulseHome() string {
	return pulseHome()
}
