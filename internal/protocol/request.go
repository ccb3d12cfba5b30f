package protocol

import (
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
)

// Cookie and query keys understood by the game.
const (
	ClientIDCookie = "clientId"
	GuessParam     = "guessedNumber"
)

// Request is a request header block split into its parts.  It is
// produced once per connection so handlers read typed fields instead
// of searching the raw text again.
type Request struct {
	// RequestLine is the first line without its line ending, e.g.
	// "GET /guess.html?guessedNumber=7 HTTP/1.1".
	RequestLine string

	Method string
	Target string // request-target as sent, including any query
	Proto  string

	Path  string
	Query url.Values

	Header textproto.MIMEHeader
}

// ParseRequest splits raw into a Request.  It never fails: missing
// pieces are left empty and the router decides what to make of them.
func ParseRequest(raw string) *Request {
	head, _, _ := strings.Cut(raw, HeaderTerminator)
	lines := strings.Split(head, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	req := &Request{
		RequestLine: lines[0],
		Header:      make(textproto.MIMEHeader),
	}

	parts := strings.SplitN(req.RequestLine, " ", 3)
	req.Method = parts[0]
	if len(parts) > 1 {
		req.Target = parts[1]
	}
	if len(parts) > 2 {
		req.Proto = parts[2]
	}

	path, rawQuery, _ := strings.Cut(req.Target, "?")
	req.Path = path
	// ParseQuery keeps every well-formed pair even when it reports an
	// error for another one.
	req.Query, _ = url.ParseQuery(rawQuery)

	for _, l := range lines[1:] {
		name, value, ok := strings.Cut(l, ":")
		if !ok || name == "" {
			continue
		}
		req.Header.Add(textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(name)), strings.TrimSpace(value))
	}
	return req
}

// HasPrefix reports whether the request line starts with prefix.
func (r *Request) HasPrefix(prefix string) bool {
	return strings.HasPrefix(r.RequestLine, prefix)
}

// Cookie returns the value of the named cookie from any Cookie header.
func (r *Request) Cookie(name string) (string, bool) {
	for _, h := range r.Header.Values("Cookie") {
		for _, pair := range strings.Split(h, ";") {
			k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
			if ok && k == name {
				return strings.TrimSpace(v), true
			}
		}
	}
	return "", false
}

// ClientID returns the session id carried in the clientId cookie.  A
// missing, non-numeric, non-positive or beyond 32-bit value reports
// false.
func (r *Request) ClientID() (int, bool) {
	v, ok := r.Cookie(ClientIDCookie)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 32)
	if err != nil || id < 1 {
		return 0, false
	}
	return int(id), true
}

// GuessedNumber returns the guessedNumber query parameter.  A missing
// or non-integer value reports false.
func (r *Request) GuessedNumber() (int, bool) {
	v := r.Query.Get(GuessParam)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}
