// Package wsclient is the thin transport layer under the feed listeners: it
// dials a single WebSocket endpoint, reads whole text messages, and writes
// JSON requests. It carries no subscription or reconnect policy of its own —
// that lives in package feed, which decides when to call Reconnect.
package wsclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"orderbook-aggregator/internal/bookmodel"
)

const (
	readTimeout  = 90 * time.Second
	writeTimeout = 10 * time.Second
)

// Client manages one WebSocket connection to one feed endpoint.
type Client struct {
	info bookmodel.Info

	connMu sync.Mutex
	conn   *websocket.Conn
}

// Dial connects to the given feed endpoint over wss://.
func Dial(ctx context.Context, info bookmodel.Info) (*Client, error) {
	c := &Client{info: info}
	if err := c.dial(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) dial(ctx context.Context) error {
	url := fmt.Sprintf("wss://%s:%d%s", c.info.Host, c.info.Port, c.info.Path)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %w", ErrTransport, url, err)
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()
	return nil
}

// ReadMessage blocks for the next complete text message. A close frame of
// any code, or the connection ending without one, is surfaced as
// ErrEndpointClosed, a non-text frame as ErrParsing, and any other failure
// as ErrTransport.
func (c *Client) ReadMessage() (string, error) {
	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	msgType, msg, err := conn.ReadMessage()
	if err != nil {
		if _, ok := err.(*websocket.CloseError); ok {
			return "", fmt.Errorf("%w: %w", ErrEndpointClosed, err)
		}
		return "", fmt.Errorf("%w: read: %w", ErrTransport, err)
	}
	if msgType != websocket.TextMessage {
		return "", fmt.Errorf("%w: unexpected frame type %d", ErrParsing, msgType)
	}
	return string(msg), nil
}

// Send JSON-encodes v and writes it as a single text frame.
func (c *Client) Send(v any) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteJSON(v); err != nil {
		return fmt.Errorf("%w: write: %w", ErrTransport, err)
	}
	return nil
}

// Reconnect closes the existing connection (best-effort) and redials the
// same endpoint.
func (c *Client) Reconnect(ctx context.Context) error {
	c.connMu.Lock()
	if c.conn != nil {
		c.conn.Close()
	}
	c.connMu.Unlock()

	return c.dial(ctx)
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
