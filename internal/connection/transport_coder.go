package connection

import (
	"context"
	"io"
	"time"

	"github.com/coder/websocket"
)

// CoderTransport dials with github.com/coder/websocket.
type CoderTransport struct {
	WriteTimeout time.Duration
	Options      *websocket.DialOptions // Optional
}

// Dial establishes the WebSocket connection.
func (t *CoderTransport) Dial(ctx context.Context, endpoint string) (Conn, error) {
	conn, _, err := websocket.Dial(ctx, endpoint, t.Options)
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(maxFrameSize)

	return &coderConn{conn: conn, writeTimeout: t.WriteTimeout}, nil
}

type coderConn struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
}

func (c *coderConn) ReadMessage(ctx context.Context) (string, error) {
	_, data, err := c.conn.Read(ctx)
	if err != nil {
		switch websocket.CloseStatus(err) {
		case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			return "", io.EOF
		}
		return "", err
	}
	return string(data), nil
}

func (c *coderConn) WriteMessage(ctx context.Context, text string) error {
	if c.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.writeTimeout)
		defer cancel()
	}
	return c.conn.Write(ctx, websocket.MessageText, []byte(text))
}

func (c *coderConn) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}
