package connection

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
)

// maxFrameSize bounds a single inbound frame.
const maxFrameSize = 1 << 20

// Transport dials a WebSocket endpoint.
type Transport interface {
	// Dial performs the opening handshake. ctx bounds the handshake only.
	Dial(ctx context.Context, endpoint string) (Conn, error)
}

// Conn is an established WebSocket connection carrying text frames.
type Conn interface {
	// ReadMessage blocks until the next frame arrives or the connection fails.
	ReadMessage(ctx context.Context) (string, error)

	// WriteMessage sends one text frame.
	WriteMessage(ctx context.Context, text string) error

	// Close closes the connection, sending a normal close frame when possible.
	Close() error
}

// Transport names accepted by NewTransport.
const (
	TransportGorilla = "gorilla"
	TransportCoder   = "coder"
)

// NewTransport returns the named transport. An empty name selects gorilla.
// header is sent with the opening handshake and may be nil.
func NewTransport(name string, writeTimeout time.Duration, header http.Header) (Transport, error) {
	switch name {
	case "", TransportGorilla:
		return &GorillaTransport{WriteTimeout: writeTimeout, Header: header}, nil
	case TransportCoder:
		return &CoderTransport{
			WriteTimeout: writeTimeout,
			Options:      &websocket.DialOptions{HTTPHeader: header},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, name)
	}
}
