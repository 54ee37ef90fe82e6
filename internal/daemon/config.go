// Package daemon manages taskdeck configuration, logging and the API server
// lifecycle.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all taskdeck configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Remote  RemoteConfig  `toml:"remote"`
	Logging LoggingConfig `toml:"logging"`
}

// ServerConfig controls the task API server (taskdeck serve).
type ServerConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	TokenTTL    string   `toml:"token_ttl"`
	Metrics     bool     `toml:"metrics"`
}

// RemoteConfig tells the CLI client where the task API lives.
type RemoteConfig struct {
	URL     string `toml:"url"`
	Timeout string `toml:"timeout"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text or json
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:        "127.0.0.1",
			Port:        8480,
			CORSOrigins: []string{"*"},
			TokenTTL:    "12h",
			Metrics:     true,
		},
		Remote: RemoteConfig{
			URL:     "http://127.0.0.1:8480",
			Timeout: "15s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig reads $TASKDECK_HOME/config.toml, falling back to defaults, then
// applies .env files and environment overrides.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := loadDotEnv(); err != nil {
		return cfg, err
	}

	path := ConfigPath()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("stat config: %w", err)
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SaveConfig writes the config to $TASKDECK_HOME/config.toml.
func SaveConfig(cfg Config) error {
	path := ConfigPath()
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

// Validate rejects values that would fail later at startup.
func (c Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if _, err := time.ParseDuration(c.Server.TokenTTL); c.Server.TokenTTL != "" && err != nil {
		return fmt.Errorf("server.token_ttl: %w", err)
	}
	if _, err := time.ParseDuration(c.Remote.Timeout); c.Remote.Timeout != "" && err != nil {
		return fmt.Errorf("remote.timeout: %w", err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format %q: want text or json", c.Logging.Format)
	}
	return nil
}

// Addr returns the server listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// TokenTTL returns the parsed token lifetime.
func (c Config) TokenTTL() time.Duration {
	return parseDuration(c.Server.TokenTTL, 12*time.Hour)
}

// RemoteTimeout returns the parsed per-call client timeout.
func (c Config) RemoteTimeout() time.Duration {
	return parseDuration(c.Remote.Timeout, 15*time.Second)
}

// ─── Environment ────────────────────────────────────────────────────────────

// loadDotEnv reads $TASKDECK_HOME/.env and ./.env if present. Variables already
// set in the environment win. A file that exists but does not parse is an error.
func loadDotEnv() error {
	for _, p := range []string{filepath.Join(taskdeckHome(), ".env"), ".env"} {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TASKDECK_API_URL"); v != "" {
		cfg.Remote.URL = v
	}
	if v := os.Getenv("TASKDECK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TASKDECK_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// parseDuration parses a duration string, returning a fallback on error.
func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// taskdeckHome returns the taskdeck data directory.
func taskdeckHome() string {
	if env := os.Getenv("TASKDECK_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".taskdeck")
}

// TaskdeckHome is exported for use by other packages.
func TaskdeckHome() string {
	return taskdeckHome()
}

// ConfigPath returns the location of config.toml.
func ConfigPath() string {
	return filepath.Join(taskdeckHome(), "config.toml")
}
