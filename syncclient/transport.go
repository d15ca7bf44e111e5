package syncclient

import (
	"context"
	"crypto/tls"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/c360/swarmsync/errors"
)

// Transport opens streaming connections to the orchestration backend. The
// production implementation speaks WebSocket; tests substitute in-memory
// transports.
type Transport interface {
	// Dial opens a connection to the endpoint. It must honor ctx for
	// cancellation and apply the given headers to the handshake.
	Dial(ctx context.Context, endpoint string, headers http.Header) (Conn, error)
}

// Conn is one open streaming connection.
type Conn interface {
	// Read blocks until the next frame arrives or the connection fails.
	Read() ([]byte, error)

	// Write transmits one frame.
	Write(data []byte) error

	// Close tears the connection down, announcing a normal closure with the
	// given reason when the protocol supports it. Safe to call more than
	// once.
	Close(reason string) error
}

// WebSocketTransport dials WebSocket endpoints with gorilla/websocket.
type WebSocketTransport struct {
	// HandshakeTimeout bounds the dial. Zero means no bound.
	HandshakeTimeout time.Duration

	// TLSConfig applies to wss endpoints. Nil uses library defaults.
	TLSConfig *tls.Config

	// WriteTimeout bounds each frame write on connections this transport
	// opens. Zero means no bound.
	WriteTimeout time.Duration
}

// Dial opens a WebSocket connection. http and https endpoint schemes are
// rewritten to ws and wss so callers can hand over plain service URLs.
func (t *WebSocketTransport) Dial(ctx context.Context, endpoint string, headers http.Header) (Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: t.HandshakeTimeout,
		TLSClientConfig:  t.TLSConfig,
		Proxy:            http.ProxyFromEnvironment,
	}

	conn, resp, err := dialer.DialContext(ctx, normalizeScheme(endpoint), headers)
	if err != nil {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		return nil, errors.WrapTransient(err, "transport", "Dial", "open websocket")
	}

	return &wsConn{conn: conn, writeTimeout: t.WriteTimeout}, nil
}

func normalizeScheme(endpoint string) string {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return "wss://" + strings.TrimPrefix(endpoint, "https://")
	case strings.HasPrefix(endpoint, "http://"):
		return "ws://" + strings.TrimPrefix(endpoint, "http://")
	default:
		return endpoint
	}
}

// wsConn adapts a gorilla connection to the Conn interface.
type wsConn struct {
	conn         *websocket.Conn
	writeTimeout time.Duration

	writeMu   sync.Mutex // Protects concurrent writes to the same connection
	closeOnce sync.Once
	closeErr  error
}

func (c *wsConn) Read() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, errors.WrapTransient(err, "transport", "Read", "read frame")
	}
	return data, nil
}

func (c *wsConn) Write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.writeTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return errors.WrapTransient(err, "transport", "Write", "write frame")
	}
	return nil
}

func (c *wsConn) Close(reason string) error {
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		// Best effort close handshake; the server may already be gone.
		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason),
			time.Now().Add(time.Second),
		)
		c.writeMu.Unlock()
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}
