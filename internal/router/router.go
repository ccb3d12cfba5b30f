// Package router turns a request header block into the response the
// game sends back.
//
// Routes are matched on prefixes of the request line, in order:
//
//	non-GET or path not starting with "/"   400
//	GET /favicon.ico                        404
//	GET /index.html                         index page
//	GET /guess.html?                        evaluate guess
//	GET /success.html                       success page
//	GET /new.html                           reset game, index page
//	any other GET                           index page
//
// Every page route first resolves the client's session from the
// clientId cookie.  A client without a usable cookie gets a new
// session and the response announces its id with Set-Cookie.
package router

import (
	"strconv"

	"guessgame/internal/game"
	"guessgame/internal/metrics"
	"guessgame/internal/pages"
	"guessgame/internal/protocol"
	"guessgame/internal/session"
	"guessgame/util"
)

// SuccessLocation is where a correct guess is redirected.
const SuccessLocation = "success.html"

// InvalidGuessHint replaces the hint placeholder when no usable guess
// was submitted.
const InvalidGuessHint = "a valid input"

// Router dispatches requests to the page handlers.
type Router struct {
	Store   *session.Store
	Pages   pages.Loader
	Metrics *metrics.Collector
}

// New returns a Router over the given session store and page loader.
func New(store *session.Store, loader pages.Loader, m *metrics.Collector) *Router {
	return &Router{Store: store, Pages: loader, Metrics: m}
}

// Handle parses raw and builds the response.  log receives
// per-request diagnostics and must not be nil.
func (rt *Router) Handle(raw string, log *util.Logger) *protocol.Response {
	req := protocol.ParseRequest(raw)
	log.Verbose("%q", req.RequestLine)

	resp := rt.route(req, log)
	rt.Metrics.ResponseSent(resp.Status)
	log.Debug("-> %d", resp.Status)
	return resp
}

func (rt *Router) route(req *protocol.Request, log *util.Logger) *protocol.Response {
	switch {
	case !req.HasPrefix("GET /"):
		return protocol.BadRequest()
	case req.HasPrefix("GET /favicon.ico"):
		return protocol.NotFound()
	case req.HasPrefix("GET /index.html"):
		return rt.index(req, log)
	case req.HasPrefix("GET /guess.html?"):
		return rt.guess(req, log)
	case req.HasPrefix("GET /success.html"):
		return rt.success(req, log)
	case req.HasPrefix("GET /new.html"):
		return rt.newGame(req, log)
	default:
		return rt.index(req, log)
	}
}

// ── Page handlers ────────────────────────────────────────────────────

func (rt *Router) index(req *protocol.Request, log *util.Logger) *protocol.Response {
	c := rt.resolve(req, log)
	return c.page(rt.load(pages.Index, log))
}

func (rt *Router) guess(req *protocol.Request, log *util.Logger) *protocol.Response {
	c := rt.resolve(req, log)
	if c.issued {
		// Nothing to evaluate against yet; start the new client on
		// the index page.
		return c.page(rt.load(pages.Index, log))
	}

	n, ok := req.GuessedNumber()
	if !ok {
		body := pages.Render(rt.load(pages.Guess, log),
			pages.HintPlaceholder, InvalidGuessHint,
			pages.CountPlaceholder, strconv.Itoa(rt.Store.Guesses(c.id)))
		return c.page(body)
	}

	ord, count := rt.Store.Evaluate(c.id, n)
	rt.Metrics.GuessEvaluated(ord == game.Equal)
	log.Debug("client %d guessed %d: %s after %d", c.id, n, ord, count)

	if ord == game.Equal {
		return protocol.Redirect(SuccessLocation)
	}
	body := pages.Render(rt.load(pages.Guess, log),
		pages.HintPlaceholder, ord.Hint(),
		pages.CountPlaceholder, strconv.Itoa(count))
	return c.page(body)
}

func (rt *Router) success(req *protocol.Request, log *util.Logger) *protocol.Response {
	c := rt.resolve(req, log)
	body := pages.Render(rt.load(pages.Success, log),
		pages.TotalPlaceholder, strconv.Itoa(rt.Store.Guesses(c.id)))
	return c.page(body)
}

func (rt *Router) newGame(req *protocol.Request, log *util.Logger) *protocol.Response {
	c := rt.resolve(req, log)
	if !c.issued {
		rt.Store.Reset(c.id)
		rt.Metrics.SessionReset()
		log.Debug("client %d started a new game", c.id)
	}
	return c.page(rt.load(pages.Index, log))
}

// ── Cookie sub-protocol ──────────────────────────────────────────────

// client is the session a request is served for.
type client struct {
	id     int
	issued bool // id was created for this request and must be announced
}

func (c client) page(body string) *protocol.Response {
	if c.issued {
		return protocol.PageWithCookie(body, c.id)
	}
	return protocol.Page(body)
}

// resolve finds the session named by the clientId cookie, creating
// the game for an unknown id.  A missing or malformed cookie starts a
// new session.
func (rt *Router) resolve(req *protocol.Request, log *util.Logger) client {
	if id, ok := req.ClientID(); ok {
		if rt.Store.Ensure(id) {
			rt.Metrics.SessionCreated()
			log.Verbose("client %d unknown, started a game", id)
		}
		return client{id: id}
	}

	if v, present := req.Cookie(protocol.ClientIDCookie); present {
		log.Warn("ignoring malformed %s cookie %q", protocol.ClientIDCookie, v)
	}
	id := rt.Store.Create()
	rt.Metrics.SessionCreated()
	log.Verbose("issued client id %d", id)
	return client{id: id, issued: true}
}

// load fetches a page body.  A missing page is logged and rendered
// empty.
func (rt *Router) load(name string, log *util.Logger) string {
	body, err := rt.Pages.Load(name)
	if err != nil {
		log.Warn("load page: %v", err)
		return ""
	}
	return body
}
