// Package transport opens the listening sockets the server accepts
// connections on, independent of what is spoken over them (which is
// the router's job).
package transport

import (
	"context"
	"net"
)

// Listener opens a listening socket.
type Listener interface {
	Listen(ctx context.Context) (net.Listener, error)
}
