// Package channel manages the session websocket to the coaching service.
package channel

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
)

// Conn is an open session channel.
type Conn interface {
	// Read blocks until the next frame arrives.
	Read(ctx context.Context) ([]byte, error)
	// Write sends one text frame.
	Write(ctx context.Context, payload []byte) error
	// Close closes the channel.
	Close() error
}

// Dialer opens session channels.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// DefaultReadLimit caps a single inbound frame when no limit is configured.
// It replaces the library's 32 KiB default.
const DefaultReadLimit int64 = 1 << 20

// WebSocketDialer dials the coaching service with coder/websocket.
type WebSocketDialer struct {
	HTTPClient *http.Client
	// ReadLimit caps a single inbound frame. Zero means DefaultReadLimit.
	ReadLimit int64
}

// Dial opens a websocket to url.
func (d WebSocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	ws, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPClient: d.HTTPClient,
	})
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	limit := d.ReadLimit
	if limit <= 0 {
		limit = DefaultReadLimit
	}
	ws.SetReadLimit(limit)
	return &wsConn{conn: ws}, nil
}

// wsConn adapts websocket.Conn to Conn.
type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) Read(ctx context.Context) ([]byte, error) {
	_, data, err := c.conn.Read(ctx)
	return data, err
}

func (c *wsConn) Write(ctx context.Context, payload []byte) error {
	return c.conn.Write(ctx, websocket.MessageText, payload)
}

func (c *wsConn) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "session ended")
}
