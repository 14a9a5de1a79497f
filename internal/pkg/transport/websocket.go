package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/coder/websocket"
)

// defaultReadLimit bounds a single frame. Backends attach stats and context
// maps to events, so the library default of 32 KiB is too small.
const defaultReadLimit = 1 << 20

// WebSocketDialer connects to a WebSocket endpoint that pushes one JSON
// event per text frame.
type WebSocketDialer struct {
	URL        string
	Header     http.Header
	HTTPClient *http.Client
	ReadLimit  int64
}

// Name returns the dialer name.
func (d *WebSocketDialer) Name() string {
	return "websocket"
}

// Dial opens the WebSocket.
func (d *WebSocketDialer) Dial(ctx context.Context) (Conn, error) {
	//nolint:bodyclose // the library owns the handshake response body
	c, _, err := websocket.Dial(ctx, d.URL, &websocket.DialOptions{
		HTTPClient: d.HTTPClient,
		HTTPHeader: d.Header,
	})
	if err != nil {
		return nil, fmt.Errorf("websocket %s: %w", d.URL, err)
	}

	limit := d.ReadLimit
	if limit <= 0 {
		limit = defaultReadLimit
	}
	c.SetReadLimit(limit)

	return &wsConn{conn: c}, nil
}

type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) Read(ctx context.Context) ([]byte, error) {
	_, data, err := c.conn.Read(ctx)
	if err != nil {
		if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
			websocket.CloseStatus(err) == websocket.StatusGoingAway {
			return nil, io.EOF
		}
		return nil, err
	}
	return data, nil
}

func (c *wsConn) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}
