// Package cmd wires up the CLI flags and starts the game server.
package cmd

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"guessgame/config"
	"guessgame/internal/core"
	"guessgame/internal/metrics"
	"guessgame/internal/pages"
	"guessgame/internal/router"
	"guessgame/internal/session"
	"guessgame/internal/transport"
	"guessgame/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X guessgame/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and runs the game server until ctx is cancelled.
func Execute(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("guessgame", flag.ContinueOnError)

	var (
		configFile  string
		host        string
		port        int
		timeoutSec  int
		concurrent  bool
		maxRequest  int
		pagesDir    string
		metricsAddr string
		verbose     int
	)

	// ── listener ─────────────────────────────────────────────────
	fs.StringVar(&host, "host", "", "Bind address (default all interfaces)")
	fs.IntVarP(&port, "port", "p", config.DefaultPort, "TCP port to listen on")
	fs.IntVarP(&timeoutSec, "timeout", "w", int(config.DefaultReadTimeout/time.Second), "Per-connection idle timeout in seconds")
	fs.BoolVarP(&concurrent, "concurrent", "k", false, "Serve connections in parallel")

	// ── requests and pages ───────────────────────────────────────
	fs.IntVar(&maxRequest, "max-request-bytes", config.DefaultMaxRequestBytes, "Largest accepted request header block")
	fs.StringVar(&pagesDir, "pages", "", "Directory holding index.html, guess.html and success.html")

	// ── output ───────────────────────────────────────────────────
	fs.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on host:port")
	fs.CountVarP(&verbose, "verbose", "v", "Increase verbosity (repeatable)")

	fs.StringVar(&configFile, "config", "", "YAML configuration file")

	var showVersion, showHelp, dryRun bool
	fs.BoolVar(&dryRun, "dry-run", false, "Validate the configuration, print it and exit")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Printf("guessgame %s\n", version)
		return nil
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments %q (use --help for usage)", fs.Args())
	}

	// ── resolve: defaults < file < env < flags ───────────────────
	cfg := config.Default()
	if configFile != "" {
		if err := config.LoadFile(configFile, cfg); err != nil {
			return err
		}
	}
	config.LoadFromEnv(cfg)

	if fs.Changed("host") {
		cfg.Host = host
	}
	if fs.Changed("port") {
		cfg.Port = port
	}
	if fs.Changed("timeout") {
		cfg.ReadTimeout = time.Duration(timeoutSec) * time.Second
	}
	if fs.Changed("concurrent") {
		cfg.Concurrent = concurrent
	}
	if fs.Changed("max-request-bytes") {
		cfg.MaxRequestBytes = maxRequest
	}
	if fs.Changed("pages") {
		cfg.PagesDir = pagesDir
	}
	if fs.Changed("metrics-addr") {
		cfg.MetricsAddr = metricsAddr
	}
	if fs.Changed("verbose") {
		cfg.Verbose = config.DefaultVerbosity + verbose
	}

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.Validate(); err != nil {
		return err
	}

	pageStore, err := pages.New(cfg.PagesDir)
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Println(cfg.String())
		return nil
	}

	// ── build components ─────────────────────────────────────────
	logger := util.NewLogger(cfg.Verbose)
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		logger.SetTimestamps(true)
	}

	return run(ctx, cfg, pageStore, logger)
}

// run starts the game listener and, when configured, the metrics
// exporter.  Both stop when ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, loader pages.Loader, logger *util.Logger) error {
	m := metrics.New()
	store := session.NewStore(nil)

	var mode core.Mode = &core.ListenMode{
		Listener:        &transport.TCPListener{Address: cfg.Addr()},
		Timeout:         cfg.ReadTimeout,
		MaxRequestBytes: cfg.MaxRequestBytes,
		Concurrent:      cfg.Concurrent,
		Handler:         router.New(store, loader, m),
		Logger:          logger,
		Metrics:         m,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg        sync.WaitGroup
		exportErr error
	)
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		if err := metrics.Register(reg, m); err != nil {
			return err
		}
		exp := &metrics.Exporter{
			Address:     cfg.MetricsAddr,
			Gatherer:    reg,
			GracePeriod: config.DefaultGracePeriod,
			Logger:      logger,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if exportErr = exp.Run(ctx); exportErr != nil {
				cancel()
			}
		}()
	}

	err := mode.Run(ctx)
	cancel()
	wg.Wait()

	if logger.Level() >= util.LogVerbose {
		logger.Verbose("stats: %s", m.JSON())
	}
	logger.Info("served %d connections, %d sessions", m.TotalConnections(), store.Len())

	if err != nil {
		return err
	}
	return exportErr
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `GuessGame v%s

A number guessing game served over HTTP.

Usage:
  guessgame [options]

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  guessgame                                   Listen on :4242
  guessgame -p 8080 -k                        Serve clients in parallel on 8080
  guessgame --pages ./site -vv                Serve custom pages with verbose logs
  guessgame --metrics-addr 127.0.0.1:9242     Expose Prometheus metrics
`)
}
