package transport

import (
	"context"
	"net"
	"time"

	gerrors "guessgame/internal/errors"
)

// TCPListener listens on a TCP address such as ":4242".
type TCPListener struct {
	Address string
	// KeepAlive is the keep-alive period for accepted connections.
	// Zero uses the system default; negative disables keep-alives.
	KeepAlive time.Duration
}

// Listen binds the address.  Failures are reported as a
// [gerrors.NetworkError] with Op "listen".
func (l *TCPListener) Listen(ctx context.Context) (net.Listener, error) {
	lc := net.ListenConfig{KeepAlive: l.KeepAlive}
	ln, err := lc.Listen(ctx, "tcp", l.Address)
	if err != nil {
		return nil, gerrors.Wrap("listen", l.Address, err)
	}
	return ln, nil
}
