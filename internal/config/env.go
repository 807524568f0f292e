package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file
const (
	EnvServerURL = "ESTATE_SERVER_URL"
	EnvVerbose   = "ESTATE_VERBOSE"
	EnvTheme     = "ESTATE_THEME"
)

// LoadEnvFiles loads ./.env and ~/.estate/.env into the process environment.
// Variables already set are never overwritten, and missing files are skipped.
func LoadEnvFiles() []string {
	candidates := []string{".env"}
	if dir, err := GetConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, ".env"))
	}

	var loaded []string
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			loaded = append(loaded, path)
		}
	}
	return loaded
}

// ApplyEnv overlays ESTATE_* variables on cfg. An unparseable ESTATE_VERBOSE
// leaves the file value in place.
func ApplyEnv(cfg Config) Config {
	if v := strings.TrimSpace(os.Getenv(EnvServerURL)); v != "" {
		cfg.ServerURL = v
	}
	if v, ok := os.LookupEnv(EnvVerbose); ok {
		if strings.TrimSpace(v) == "" {
			cfg.Verbose = false
		} else if b, err := ParseBool(v); err == nil {
			cfg.Verbose = b
		} else {
			slog.Warn("ignoring "+EnvVerbose, "err", err)
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvTheme)); v != "" {
		cfg.TUITheme = v
	}
	return cfg
}

// Load returns the effective configuration: defaults, then the config file,
// then .env files and ESTATE_* variables
func Load() (Config, error) {
	LoadEnvFiles()
	cfg, err := LoadConfig()
	return ApplyEnv(cfg), err
}
