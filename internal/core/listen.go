package core

import (
	"context"
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	gerrors "guessgame/internal/errors"
	"guessgame/internal/metrics"
	"guessgame/internal/protocol"
	"guessgame/internal/retry"
	"guessgame/internal/transport"
	"guessgame/util"
)

// Handler builds the response to one request header block.
type Handler interface {
	Handle(raw string, log *util.Logger) *protocol.Response
}

var _ Mode = (*ListenMode)(nil)

// ListenMode accepts connections and answers one request on each.
// By default connections are served one at a time, in accept order;
// with Concurrent=true each connection gets its own goroutine.
type ListenMode struct {
	Listener        transport.Listener
	Timeout         time.Duration // longest silence between reads, and the write budget (0 = none)
	MaxRequestBytes int           // header block limit (0 = unlimited)
	Concurrent      bool
	Handler         Handler
	Logger          *util.Logger
	Metrics         *metrics.Collector
}

// Run binds the listener and serves until ctx is cancelled, which
// yields a nil error.  Only a listener fault ends Run early.
func (m *ListenMode) Run(ctx context.Context) error {
	ln, err := m.Listener.Listen(ctx)
	if err != nil {
		return err
	}
	defer ln.Close()

	m.Logger.Info("listening on %s", ln.Addr())

	// Shut the listener down when the context expires.
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	backoff := retry.AcceptBackoff()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if gerrors.Is(err, net.ErrClosed) {
				return gerrors.ErrListenerClosed
			}
			nerr := gerrors.Wrap("accept", ln.Addr().String(), err)
			if !nerr.Retryable {
				return nerr
			}
			m.Logger.Warn("%v", nerr)
			m.Metrics.RecordError(nerr.Error())
			if backoff.Wait(ctx) != nil {
				return nil
			}
			continue
		}
		backoff.Reset()

		if m.Concurrent {
			wg.Add(1)
			go func() {
				defer wg.Done()
				m.serveConn(conn)
			}()
		} else {
			m.serveConn(conn)
		}
	}
}

// serveConn reads one request, answers it and closes the connection.
// Failures are logged and never propagate to the accept loop.
func (m *ListenMode) serveConn(conn net.Conn) {
	defer conn.Close()

	m.Metrics.ConnectionOpened()
	defer m.Metrics.ConnectionClosed()

	remote := conn.RemoteAddr().String()
	log := m.Logger.With("conn=" + uuid.NewString()[:8])
	log.Verbose("connection from %s", remote)

	var r io.Reader = conn
	if m.Timeout > 0 {
		r = &idleReader{conn: conn, timeout: m.Timeout}
	}

	raw, err := protocol.ReadRequest(r, m.MaxRequestBytes)
	m.Metrics.BytesReceived(int64(len(raw)))

	var resp *protocol.Response
	switch {
	case err == nil:
		resp = m.Handler.Handle(raw, log)
	case gerrors.Is(err, gerrors.ErrRequestTooLarge):
		log.Warn("request from %s exceeds %d bytes", remote, m.MaxRequestBytes)
		resp = protocol.BadRequest()
		m.Metrics.ResponseSent(resp.Status)
	default:
		nerr := gerrors.Wrap("read", remote, err)
		if gerrors.IsTimeout(err) {
			log.Warn("%v", nerr)
		} else {
			log.Error("%v", nerr)
		}
		m.Metrics.RecordError(nerr.Error())
		return
	}

	if m.Timeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(m.Timeout)) //nolint:errcheck
	}
	n, err := conn.Write(resp.Bytes())
	m.Metrics.BytesSent(int64(n))
	if err != nil {
		nerr := gerrors.Wrap("write", remote, err)
		log.Error("%v", nerr)
		m.Metrics.RecordError(nerr.Error())
	}
}

// idleReader restarts the read deadline before every read, so the
// timeout bounds the silence between reads rather than the whole
// request.
type idleReader struct {
	conn    net.Conn
	timeout time.Duration
}

func (r *idleReader) Read(p []byte) (int, error) {
	if err := r.conn.SetReadDeadline(time.Now().Add(r.timeout)); err != nil {
		return 0, err
	}
	return r.conn.Read(p)
}
