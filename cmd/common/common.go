// Package common provides shared configuration handling for the poll
// backend CLI commands.
//
// Configuration is layered: built-in defaults, then an optional YAML file,
// then an optional .env file, then command-line flags. The PORT environment
// variable is honored for the HTTP listen address so the server drops into
// the usual PaaS conventions.
package common

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting of the poll server.
type Config struct {
	HTTPAddr    string `yaml:"http_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
	EnablePprof bool   `yaml:"enable_pprof"`

	LogJSON  bool `yaml:"log_json"`
	LogDebug bool `yaml:"log_debug"`

	AllowedOrigins []string `yaml:"allowed_origins"`

	DrainDuration    time.Duration `yaml:"drain_duration"`
	ShutdownDuration time.Duration `yaml:"shutdown_duration"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
}

// DefaultConfig returns the settings the server runs with when nothing is
// configured.
func DefaultConfig() *Config {
	return &Config{
		HTTPAddr:         ":4000",
		DrainDuration:    5 * time.Second,
		ShutdownDuration: 10 * time.Second,
		ReadTimeout:      15 * time.Second,
	}
}

// LoadConfig reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadEnv loads a .env file when present. A missing file is not an error;
// the environment simply stays as is.
func LoadEnv(path string) {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err == nil {
		slog.Debug("loaded environment file", "path", path)
	}
}

// EnvAddr resolves the HTTP listen address from the PORT environment
// variable, falling back to the configured address.
func EnvAddr(configured string) string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return configured
}

// NewLogger builds the process logger in the configured format and level.
func NewLogger(cfg *Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.LogDebug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.LogJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
