package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRequest_RequestLine(t *testing.T) {
	req := ParseRequest("GET /guess.html?guessedNumber=42 HTTP/1.1\r\nHost: x\r\n\r\n")

	assert.Equal(t, "GET /guess.html?guessedNumber=42 HTTP/1.1", req.RequestLine)
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "/guess.html?guessedNumber=42", req.Target)
	assert.Equal(t, "HTTP/1.1", req.Proto)
	assert.Equal(t, "/guess.html", req.Path)
	assert.Equal(t, "x", req.Header.Get("Host"))
}

func TestParseRequest_Degenerate(t *testing.T) {
	for _, raw := range []string{"", "GET", "\r\n\r\n", "garbage without lines"} {
		req := ParseRequest(raw)
		assert.NotNil(t, req, raw)
		assert.NotNil(t, req.Query, raw)
		_, ok := req.ClientID()
		assert.False(t, ok, raw)
	}
}

func TestParseRequest_IgnoresBodyAfterHeaders(t *testing.T) {
	req := ParseRequest("GET / HTTP/1.1\r\n\r\nCookie: clientId=5\r\n")
	_, ok := req.ClientID()
	assert.False(t, ok)
}

func TestRequest_ClientID(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int
		ok     bool
	}{
		{"absent", "", 0, false},
		{"plain", "Cookie: clientId=7\r\n", 7, true},
		{"lower-case header", "cookie: clientId=12\r\n", 12, true},
		{"among others", "Cookie: theme=dark; clientId=3; lang=en\r\n", 3, true},
		{"second header", "Cookie: a=b\r\nCookie: clientId=9\r\n", 9, true},
		{"non-numeric", "Cookie: clientId=abc\r\n", 0, false},
		{"empty", "Cookie: clientId=\r\n", 0, false},
		{"zero", "Cookie: clientId=0\r\n", 0, false},
		{"negative", "Cookie: clientId=-4\r\n", 0, false},
		{"max 32-bit", "Cookie: clientId=2147483647\r\n", 2147483647, true},
		{"beyond 32-bit", "Cookie: clientId=2147483648\r\n", 0, false},
		{"max 64-bit", "Cookie: clientId=9223372036854775807\r\n", 0, false},
		{"other cookie only", "Cookie: myclientId=4\r\n", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ParseRequest("GET / HTTP/1.1\r\n" + tt.header + "\r\n")
			got, ok := req.ClientID()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequest_GuessedNumber(t *testing.T) {
	tests := []struct {
		target string
		want   int
		ok     bool
	}{
		{"/guess.html?guessedNumber=42", 42, true},
		{"/guess.html?guessedNumber=0", 0, true},
		{"/guess.html?guessedNumber=-1", -1, true},
		{"/guess.html?x=1&guessedNumber=8", 8, true},
		{"/guess.html?guessedNumber=", 0, false},
		{"/guess.html?guessedNumber=abc", 0, false},
		{"/guess.html?guessedNumber=4.5", 0, false},
		{"/guess.html?", 0, false},
		{"/guess.html", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			req := ParseRequest("GET " + tt.target + " HTTP/1.1\r\n\r\n")
			got, ok := req.GuessedNumber()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequest_HasPrefix(t *testing.T) {
	req := ParseRequest("GET /favicon.ico HTTP/1.1\r\n\r\n")
	assert.True(t, req.HasPrefix("GET /"))
	assert.True(t, req.HasPrefix("GET /favicon.ico"))
	assert.False(t, req.HasPrefix("POST /"))
}
