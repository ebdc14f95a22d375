package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-handbook/internal/config"
)

// envPrefix prefixes every recognized environment variable.
const envPrefix = "HANDBOOK_"

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // HANDBOOK_CONFIG: config file name or path
	LogLevel   string        // HANDBOOK_LOG_LEVEL: debug, info, warn, error
	OutputDir  string        // HANDBOOK_OUTPUT_DIR: render output directory
	Addr       string        // HANDBOOK_ADDR: serve listen address
	Name       string        // HANDBOOK_NAME: site name
	Timeout    time.Duration // HANDBOOK_TIMEOUT: per-page render timeout
	Workers    int           // HANDBOOK_WORKERS: parallel renderers
}

// knownEnvVars lists valid HANDBOOK_* environment variables.
var knownEnvVars = map[string]bool{
	"HANDBOOK_CONFIG":     true,
	"HANDBOOK_LOG_LEVEL":  true,
	"HANDBOOK_OUTPUT_DIR": true,
	"HANDBOOK_ADDR":       true,
	"HANDBOOK_NAME":       true,
	"HANDBOOK_TIMEOUT":    true,
	"HANDBOOK_WORKERS":    true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numeric values are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("HANDBOOK_CONFIG"),
		LogLevel:   os.Getenv("HANDBOOK_LOG_LEVEL"),
		OutputDir:  os.Getenv("HANDBOOK_OUTPUT_DIR"),
		Addr:       os.Getenv("HANDBOOK_ADDR"),
		Name:       os.Getenv("HANDBOOK_NAME"),
	}

	if timeout := os.Getenv("HANDBOOK_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("HANDBOOK_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars reports unrecognized HANDBOOK_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name := strings.SplitN(env, "=", 2)[0]
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig fills config values left empty by the file.
// Priority: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Name != "" && cfg.Name == "" {
		cfg.Name = env.Name
	}
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// firstPositive returns the first value above zero.
func firstPositive[T int | time.Duration](values ...T) T {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
