// Package config defines the runtime configuration for the guessgame
// server and loads it from a YAML file and the environment.
package config

import (
	"fmt"
	"time"

	gerrors "guessgame/internal/errors"
	"guessgame/util"
)

// Config holds every tuneable for one server process.
type Config struct {
	// ── Listener ─────────────────────────────────────────────────────
	Host        string
	Port        int
	ReadTimeout time.Duration // per-connection idle timeout
	Concurrent  bool          // serve connections in parallel

	// ── Requests and pages ───────────────────────────────────────────
	MaxRequestBytes int
	PagesDir        string // empty selects the embedded pages

	// ── Observability ────────────────────────────────────────────────
	MetricsAddr string // empty disables the Prometheus exporter
	Verbose     int

	// ConfigFile is the YAML file the values were read from, if any.
	ConfigFile string
}

// Default returns a Config populated from defaults.go.
func Default() *Config {
	return &Config{
		Port:            DefaultPort,
		ReadTimeout:     DefaultReadTimeout,
		MaxRequestBytes: DefaultMaxRequestBytes,
		Verbose:         DefaultVerbosity,
	}
}

// Addr is the host:port the game listener binds.
func (c *Config) Addr() string {
	return util.FormatAddr(c.Host, c.Port)
}

// String renders the resolved configuration for --dry-run.
func (c *Config) String() string {
	pages := c.PagesDir
	if pages == "" {
		pages = "(embedded)"
	}
	metrics := c.MetricsAddr
	if metrics == "" {
		metrics = "(disabled)"
	}
	return fmt.Sprintf("listen=%s timeout=%s concurrent=%t max-request-bytes=%d pages=%s metrics=%s verbose=%d",
		c.Addr(), c.ReadTimeout, c.Concurrent, c.MaxRequestBytes, pages, metrics, c.Verbose)
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent.
// Errors are *gerrors.ConfigError values carrying a hint for the user.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return &gerrors.ConfigError{
			Field:   "port",
			Value:   c.Port,
			Message: "port out of range 1-65535",
			Hint:    fmt.Sprintf("the game listens on %d by default", DefaultPort),
		}
	}

	if c.ReadTimeout <= 0 {
		return &gerrors.ConfigError{
			Field:   "timeout",
			Value:   int(c.ReadTimeout / time.Second),
			Message: "timeout must be positive",
			Hint:    "use -w <seconds>, e.g. -w 10",
		}
	}

	if c.MaxRequestBytes < util.DefaultBufSize {
		return &gerrors.ConfigError{
			Field:   "max-request-bytes",
			Value:   c.MaxRequestBytes,
			Message: fmt.Sprintf("limit is smaller than one %d-byte read", util.DefaultBufSize),
		}
	}

	if c.MetricsAddr != "" {
		host, port, err := util.SplitAddr(c.MetricsAddr)
		if err != nil || port < 1 || port > 65535 {
			return &gerrors.ConfigError{
				Field:   "metrics-addr",
				Value:   c.MetricsAddr,
				Message: "expected host:port",
				Hint:    "e.g. --metrics-addr 127.0.0.1:9242",
			}
		}
		if port == c.Port && (host == c.Host || host == "" || c.Host == "") {
			return &gerrors.ConfigError{
				Field:   "metrics-addr",
				Value:   c.MetricsAddr,
				Message: "metrics exporter would share the game port",
				Hint:    "pick a different port for --metrics-addr",
			}
		}
	}

	return nil
}
