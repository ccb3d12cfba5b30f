// Package core is the orchestration layer.  It composes a transport
// listener and a request handler into the running server.
//
// Architecture layers (bottom → top):
//
//	transport  →  protocol  →  router (session, game, pages)  →  core  →  cmd (CLI)
package core

import "context"

// Mode is a complete operational mode of the server.  Each mode owns
// its full lifecycle from binding to teardown.
type Mode interface {
	Run(ctx context.Context) error
}
