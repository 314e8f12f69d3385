// Package websocket adapts a gorilla/websocket connection to the
// transport.Conn byte-stream interface, so the sync client's LAN fallback
// channel can speak the same ECNP framing as the default TCP transport.
package websocket

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/gorilla/websocket"

	"github.com/edgeclaw/core/errs"
	"github.com/edgeclaw/core/transport"
)

// Dial opens a WebSocket connection to a ws:// or wss:// endpoint and
// returns it as a transport.Conn. Messages are carried as binary WebSocket
// frames; reads are buffered across frame boundaries to present a plain
// byte stream to callers expecting io.Reader semantics.
func Dial(ctx context.Context, endpoint string) (transport.Conn, error) {
	dialer := &websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ConnectionError, "WebSocket dial failed", err)
	}
	return &Conn{conn: conn}, nil
}

// Conn wraps *websocket.Conn to satisfy transport.Conn.
type Conn struct {
	conn    *websocket.Conn
	pending bytes.Buffer
}

// Read fills p from the pending buffer, reading additional WebSocket binary
// frames as needed.
func (c *Conn) Read(p []byte) (int, error) {
	for c.pending.Len() == 0 {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			return 0, err
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		c.pending.Write(data)
	}
	return c.pending.Read(p)
}

// Write sends p as a single binary WebSocket frame.
func (c *Conn) Write(p []byte) (int, error) {
	if err := c.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close closes the underlying WebSocket connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// SetDeadline sets both the read and write deadlines on the underlying
// connection.
func (c *Conn) SetDeadline(t time.Time) error {
	if err := c.conn.SetReadDeadline(t); err != nil {
		return err
	}
	return c.conn.SetWriteDeadline(t)
}

var _ io.ReadWriteCloser = (*Conn)(nil)
