package connection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// GorillaTransport dials with github.com/gorilla/websocket.
type GorillaTransport struct {
	WriteTimeout time.Duration
	Header       http.Header // Extra handshake headers (optional)
}

// Dial establishes the WebSocket connection.
func (t *GorillaTransport) Dial(ctx context.Context, endpoint string) (Conn, error) {
	dialer := websocket.Dialer{
		Proxy: http.ProxyFromEnvironment,
	}
	if deadline, ok := ctx.Deadline(); ok {
		dialer.HandshakeTimeout = time.Until(deadline)
	}

	conn, resp, err := dialer.DialContext(ctx, endpoint, t.Header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(maxFrameSize)

	return &gorillaConn{conn: conn, writeTimeout: t.WriteTimeout}, nil
}

type gorillaConn struct {
	conn         *websocket.Conn
	writeTimeout time.Duration

	// Write serialization
	writeMu sync.Mutex
}

// ReadMessage ignores ctx: a blocked read is released by Close.
func (c *gorillaConn) ReadMessage(_ context.Context) (string, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return "", io.EOF
		}
		return "", err
	}
	return string(data), nil
}

func (c *gorillaConn) WriteMessage(ctx context.Context, text string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	var deadline time.Time
	if c.writeTimeout > 0 {
		deadline = time.Now().Add(c.writeTimeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	c.conn.SetWriteDeadline(deadline)
	return c.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

// Close reports a failed close frame together with any error closing the
// underlying connection.
func (c *gorillaConn) Close() error {
	c.writeMu.Lock()
	err := c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	c.writeMu.Unlock()
	if err != nil {
		err = fmt.Errorf("send close frame: %w", err)
	}
	return errors.Join(err, c.conn.Close())
}
