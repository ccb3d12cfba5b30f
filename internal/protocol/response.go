package protocol

import (
	"fmt"
	"net/http"
	"strings"
)

// ServerName is announced in the Server header of page responses.
const ServerName = "GuessGame 1.0"

const cacheHeaders = "Cache-Control: no-cache, no-store, must-revalidate\r\n" +
	"Pragma: no-cache\r\n" +
	"Expires: 0\r\n"

// Response is one of the fixed responses the server sends.  Build it
// with [Page], [PageWithCookie], [BadRequest], [NotFound] or
// [Redirect] and render it with [Response.Bytes].
type Response struct {
	Status   int
	ClientID int // announced with Set-Cookie when non-zero
	Location string
	Body     string
}

// Page is a 200 response for a client that already holds a cookie.
func Page(body string) *Response {
	return &Response{Status: http.StatusOK, Body: body}
}

// PageWithCookie is a 200 response that hands a new session id to the
// client.
func PageWithCookie(body string, clientID int) *Response {
	return &Response{Status: http.StatusOK, ClientID: clientID, Body: body}
}

// BadRequest is a 400 response with an empty body.
func BadRequest() *Response { return &Response{Status: http.StatusBadRequest} }

// NotFound is a 404 response with an empty body.
func NotFound() *Response { return &Response{Status: http.StatusNotFound} }

// Redirect is a 301 response pointing at location.
func Redirect(location string) *Response {
	return &Response{Status: http.StatusMovedPermanently, Location: location}
}

// Bytes renders the status line, headers, blank line and body.
func (r *Response) Bytes() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "HTTP/1.1 %d %s\r\n", r.Status, http.StatusText(r.Status))

	switch r.Status {
	case http.StatusOK:
		b.WriteString("Server: " + ServerName + "\r\n")
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		b.WriteString(cacheHeaders)
		if r.ClientID != 0 {
			fmt.Fprintf(&b, "Set-Cookie: %s=%d;\r\n", ClientIDCookie, r.ClientID)
		}
	case http.StatusMovedPermanently:
		b.WriteString("Location: " + r.Location + "\r\n")
		b.WriteString(cacheHeaders)
	default:
		b.WriteString(cacheHeaders)
	}

	b.WriteString("\r\n")
	b.WriteString(r.Body)
	return []byte(b.String())
}
