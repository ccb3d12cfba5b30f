package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"guessgame/util"
)

// Namespace prefixes every exported metric name.
const Namespace = "guessgame"

// Register exposes the counters of c on reg.  Values are read from c
// at scrape time, so the collector stays the single source of truth.
func Register(reg prometheus.Registerer, c *Collector) error {
	counter := func(name, help string, fn func() int64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(fn()) })
	}

	cs := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "connections_active",
			Help:      "Connections currently being served.",
		}, func() float64 { return float64(c.ActiveConnections()) }),
		counter("connections_total", "Connections accepted.", c.TotalConnections),
		counter("received_bytes_total", "Request bytes read.", c.TotalBytesIn),
		counter("sent_bytes_total", "Response bytes written.", c.TotalBytesOut),
		counter("errors_total", "Per-connection transport errors.", c.ErrorCount),
		counter("sessions_created_total", "Session ids issued.", c.SessionsCreated),
		counter("session_resets_total", "New-game requests.", c.SessionResets),
		counter("guesses_total", "Guesses evaluated.", c.Guesses),
		counter("games_won_total", "Correct guesses.", c.GamesWon),
	}
	for _, code := range statusCodes {
		code := code
		cs = append(cs, prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   Namespace,
			Name:        "responses_total",
			Help:        "Responses sent by status code.",
			ConstLabels: prometheus.Labels{"code": strconv.Itoa(code)},
		}, func() float64 { return float64(c.Responses(code)) }))
	}

	for _, col := range cs {
		if err := reg.Register(col); err != nil {
			return fmt.Errorf("register metric: %w", err)
		}
	}
	return nil
}

// Exporter serves a Prometheus registry over HTTP on /metrics.
type Exporter struct {
	Address     string
	Gatherer    prometheus.Gatherer
	GracePeriod time.Duration
	Logger      *util.Logger
}

// Run listens on Address and serves until ctx is cancelled.
func (e *Exporter) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", e.Address)
	if err != nil {
		return fmt.Errorf("metrics listen on %s: %w", e.Address, err)
	}
	return e.Serve(ctx, ln)
}

// Serve serves on an existing listener until ctx is cancelled.
func (e *Exporter) Serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(e.Gatherer, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		e.Logger.Verbose("metrics listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
	}

	grace := e.GracePeriod
	if grace <= 0 {
		grace = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("metrics shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
