package wsclient

import "errors"

// ErrEndpointClosed means the remote end closed the WebSocket connection.
// Callers should reconnect and re-subscribe.
var ErrEndpointClosed = errors.New("wsclient: endpoint closed connection")

// ErrParsing means a frame was received but wasn't a text frame we can
// treat as a UTF-8 message.
var ErrParsing = errors.New("wsclient: could not parse frame")

// ErrTransport covers dial/read/write failures not covered by the above.
var ErrTransport = errors.New("wsclient: transport error")
