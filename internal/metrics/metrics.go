// Package metrics provides lightweight, lock-free counters and gauges
// for tracking runtime statistics of the game server.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks runtime metrics for the server.
// A nil Collector is safe to use; all methods become no-ops.
type Collector struct {
	connectionsActive atomic.Int64
	connectionsTotal  atomic.Int64
	bytesIn           atomic.Int64
	bytesOut          atomic.Int64
	errorsTotal       atomic.Int64

	sessionsCreated atomic.Int64
	sessionResets   atomic.Int64
	guessesTotal    atomic.Int64
	gamesWon        atomic.Int64

	responses [len(statusCodes)]atomic.Int64

	mu           sync.RWMutex
	startTime    time.Time
	lastError    time.Time
	lastErrorMsg string
}

// statusCodes lists every status the server can answer with.
var statusCodes = [...]int{
	http.StatusOK,
	http.StatusMovedPermanently,
	http.StatusBadRequest,
	http.StatusNotFound,
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Connection metrics ───────────────────────────────────────────────

// ConnectionOpened increments both the active and total counters.
func (c *Collector) ConnectionOpened() {
	if c == nil {
		return
	}
	c.connectionsActive.Add(1)
	c.connectionsTotal.Add(1)
}

// ConnectionClosed decrements the active connection counter.
func (c *Collector) ConnectionClosed() {
	if c == nil {
		return
	}
	c.connectionsActive.Add(-1)
}

// ActiveConnections returns the current number of open connections.
func (c *Collector) ActiveConnections() int64 {
	if c == nil {
		return 0
	}
	return c.connectionsActive.Load()
}

// TotalConnections returns the lifetime connection count.
func (c *Collector) TotalConnections() int64 {
	if c == nil {
		return 0
	}
	return c.connectionsTotal.Load()
}

// ── I/O metrics ──────────────────────────────────────────────────────

// BytesReceived records n bytes read from the network.
func (c *Collector) BytesReceived(n int64) {
	if c == nil {
		return
	}
	c.bytesIn.Add(n)
}

// BytesSent records n bytes written to the network.
func (c *Collector) BytesSent(n int64) {
	if c == nil {
		return
	}
	c.bytesOut.Add(n)
}

// TotalBytesIn returns total bytes received.
func (c *Collector) TotalBytesIn() int64 {
	if c == nil {
		return 0
	}
	return c.bytesIn.Load()
}

// TotalBytesOut returns total bytes sent.
func (c *Collector) TotalBytesOut() int64 {
	if c == nil {
		return 0
	}
	return c.bytesOut.Load()
}

// ── Game metrics ─────────────────────────────────────────────────────

// SessionCreated records a newly issued session id.
func (c *Collector) SessionCreated() {
	if c == nil {
		return
	}
	c.sessionsCreated.Add(1)
}

// SessionReset records a new-game request.
func (c *Collector) SessionReset() {
	if c == nil {
		return
	}
	c.sessionResets.Add(1)
}

// GuessEvaluated records one evaluated guess; won marks a correct one.
func (c *Collector) GuessEvaluated(won bool) {
	if c == nil {
		return
	}
	c.guessesTotal.Add(1)
	if won {
		c.gamesWon.Add(1)
	}
}

// SessionsCreated returns the number of issued session ids.
func (c *Collector) SessionsCreated() int64 {
	if c == nil {
		return 0
	}
	return c.sessionsCreated.Load()
}

// SessionResets returns the number of new-game requests.
func (c *Collector) SessionResets() int64 {
	if c == nil {
		return 0
	}
	return c.sessionResets.Load()
}

// Guesses returns the number of evaluated guesses.
func (c *Collector) Guesses() int64 {
	if c == nil {
		return 0
	}
	return c.guessesTotal.Load()
}

// GamesWon returns the number of correct guesses.
func (c *Collector) GamesWon() int64 {
	if c == nil {
		return 0
	}
	return c.gamesWon.Load()
}

// ── Responses ────────────────────────────────────────────────────────

// ResponseSent counts a response by status code.  Unknown codes are
// ignored.
func (c *Collector) ResponseSent(status int) {
	if c == nil {
		return
	}
	if i := statusIndex(status); i >= 0 {
		c.responses[i].Add(1)
	}
}

// Responses returns how many responses carried status.
func (c *Collector) Responses(status int) int64 {
	if c == nil {
		return 0
	}
	if i := statusIndex(status); i >= 0 {
		return c.responses[i].Load()
	}
	return 0
}

func statusIndex(status int) int {
	for i, code := range statusCodes {
		if code == status {
			return i
		}
	}
	return -1
}

// ── Error metrics ────────────────────────────────────────────────────

// RecordError increments the error counter and stores the message.
func (c *Collector) RecordError(msg string) {
	if c == nil {
		return
	}
	c.errorsTotal.Add(1)
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = msg
	c.mu.Unlock()
}

// ErrorCount returns the total number of errors recorded.
func (c *Collector) ErrorCount() int64 {
	if c == nil {
		return 0
	}
	return c.errorsTotal.Load()
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Uptime            string           `json:"uptime"`
	ConnectionsActive int64            `json:"connections_active"`
	ConnectionsTotal  int64            `json:"connections_total"`
	BytesIn           int64            `json:"bytes_in"`
	BytesOut          int64            `json:"bytes_out"`
	SessionsCreated   int64            `json:"sessions_created"`
	SessionResets     int64            `json:"session_resets"`
	Guesses           int64            `json:"guesses"`
	GamesWon          int64            `json:"games_won"`
	Responses         map[string]int64 `json:"responses,omitempty"`
	ErrorsTotal       int64            `json:"errors_total"`
	LastError         string           `json:"last_error,omitempty"`
	LastErrorMessage  string           `json:"last_error_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Uptime:            time.Since(c.startTime).Truncate(time.Second).String(),
		ConnectionsActive: c.connectionsActive.Load(),
		ConnectionsTotal:  c.connectionsTotal.Load(),
		BytesIn:           c.bytesIn.Load(),
		BytesOut:          c.bytesOut.Load(),
		SessionsCreated:   c.sessionsCreated.Load(),
		SessionResets:     c.sessionResets.Load(),
		Guesses:           c.guessesTotal.Load(),
		GamesWon:          c.gamesWon.Load(),
		ErrorsTotal:       c.errorsTotal.Load(),
	}
	for i, code := range statusCodes {
		if n := c.responses[i].Load(); n > 0 {
			if s.Responses == nil {
				s.Responses = make(map[string]int64)
			}
			s.Responses[http.StatusText(code)] = n
		}
	}
	if !c.lastError.IsZero() {
		s.LastError = c.lastError.Format(time.RFC3339)
		s.LastErrorMessage = c.lastErrorMsg
	}
	return s
}

// JSON returns the snapshot as an indented JSON string.
func (c *Collector) JSON() string {
	s := c.Snapshot()
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}
