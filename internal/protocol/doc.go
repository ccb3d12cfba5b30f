// Package protocol implements the small subset of HTTP/1.1 spoken by
// the game server: reading a request header block off a connection,
// splitting it into request line, headers, cookies and query, and
// rendering the fixed set of responses the server ever sends.
//
// It is deliberately not a general HTTP implementation.  There is no
// chunked encoding, no keep-alive and no Content-Length; the server
// closes the connection after every response and the client takes the
// close as the end of the body.
package protocol
