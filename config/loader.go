package config

// loader.go - configuration loading from a YAML file and environment
// variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (LoadFromEnv)
//   3. YAML file  (LoadFile)
//   4. Defaults   (defaults.go)

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML layout.  Pointer fields distinguish a
// missing key from a zero value.
type fileConfig struct {
	Host            *string `yaml:"host"`
	Port            *int    `yaml:"port"`
	Timeout         *int    `yaml:"timeout"` // seconds
	Concurrent      *bool   `yaml:"concurrent"`
	MaxRequestBytes *int    `yaml:"max_request_bytes"`
	Pages           *string `yaml:"pages"`
	MetricsAddr     *string `yaml:"metrics_addr"`
	Verbose         *int    `yaml:"verbose"`
}

// LoadFile overlays the YAML file at path onto cfg.  Keys absent from
// the file leave cfg unchanged; unknown keys are rejected.
func LoadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	defer f.Close()

	var fc fileConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file %s: %w", path, err)
	}

	if fc.Host != nil {
		cfg.Host = *fc.Host
	}
	if fc.Port != nil {
		cfg.Port = *fc.Port
	}
	if fc.Timeout != nil {
		cfg.ReadTimeout = secondsDuration(*fc.Timeout)
	}
	if fc.Concurrent != nil {
		cfg.Concurrent = *fc.Concurrent
	}
	if fc.MaxRequestBytes != nil {
		cfg.MaxRequestBytes = *fc.MaxRequestBytes
	}
	if fc.Pages != nil {
		cfg.PagesDir = *fc.Pages
	}
	if fc.MetricsAddr != nil {
		cfg.MetricsAddr = *fc.MetricsAddr
	}
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}
	cfg.ConfigFile = path
	return nil
}

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the GUESSGAME_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.  Call it after LoadFile and
// before applying CLI flags.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("GUESSGAME_HOST"); v != "" {
		cfg.Host = v
	}
	if v := envInt("GUESSGAME_PORT"); v > 0 {
		cfg.Port = v
	}
	if v := envInt("GUESSGAME_TIMEOUT"); v > 0 {
		cfg.ReadTimeout = secondsDuration(v)
	}
	if envBool("GUESSGAME_CONCURRENT") {
		cfg.Concurrent = true
	}
	if v := envInt("GUESSGAME_MAX_REQUEST_BYTES"); v > 0 {
		cfg.MaxRequestBytes = v
	}
	if v := os.Getenv("GUESSGAME_PAGES"); v != "" {
		cfg.PagesDir = v
	}
	if v := os.Getenv("GUESSGAME_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("GUESSGAME_VERBOSE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Verbose = n
		}
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}

func secondsDuration(sec int) time.Duration {
	return time.Duration(sec) * time.Second
}
