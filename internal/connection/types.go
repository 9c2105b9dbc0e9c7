package connection

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Errors
var (
	ErrNotOpen           = errors.New("connection not open")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrUnknownTransport  = errors.New("unknown transport")
)

// Default values.
const (
	DefaultEndpoint         = "ws://localhost:4040/ws"
	DefaultGreeting         = "HI, SERVER!"
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultWriteTimeout     = 5 * time.Second
	DefaultEventBuffer      = 256
)

// Config configures a Client.
type Config struct {
	Endpoint         string        // WebSocket URL (e.g., ws://localhost:4040/ws)
	AutoGreet        bool          // Send Greeting once the connection opens
	Greeting         string        // Text sent when AutoGreet is set
	HandshakeTimeout time.Duration // Max time for the opening handshake
	WriteTimeout     time.Duration // Write deadline for sends
	EventBuffer      int           // Event loop channel buffer size
}

// DefaultConfig returns sensible defaults (button-driven, no greeting).
func DefaultConfig() Config {
	return Config{
		Endpoint:         DefaultEndpoint,
		Greeting:         DefaultGreeting,
		HandshakeTimeout: DefaultHandshakeTimeout,
		WriteTimeout:     DefaultWriteTimeout,
		EventBuffer:      DefaultEventBuffer,
	}
}

// Stats is a point-in-time view of the Client.
type Stats struct {
	ConnID         uuid.UUID
	State          State
	FramesSent     int64
	FramesReceived int64
	FramesDropped  int64
}

type eventKind int

const (
	evOpen eventKind = iota
	evMessage
	evClose
)

// event is a transport notification delivered to the event loop.
type event struct {
	kind eventKind
	conn Conn   // evOpen
	data string // evMessage
	err  error  // evClose
}

// click is a UI send request delivered to the event loop.
type click struct {
	text    string
	handled chan struct{}
}
