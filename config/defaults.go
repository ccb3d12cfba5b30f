package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags, config file parsing, and environment variable
// loading.

const (
	// DefaultPort is the TCP port the game listens on.
	DefaultPort = 4242

	// DefaultReadTimeout bounds how long a connection may sit idle
	// before its request is complete.
	DefaultReadTimeout = 10 * time.Second

	// DefaultMaxRequestBytes caps the request header block.
	DefaultMaxRequestBytes = 1 << 20

	// DefaultGracePeriod is how long the metrics exporter waits for
	// in-flight scrapes on shutdown.
	DefaultGracePeriod = 5 * time.Second

	// DefaultVerbosity logs errors, warnings and startup information.
	DefaultVerbosity = 1
)
