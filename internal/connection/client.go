package connection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/chatlink/internal/sink"
)

// Client owns the single WebSocket Connection and its lifecycle.
type Client struct {
	cfg       Config
	transport Transport
	sink      sink.Sink
	logger    *slog.Logger

	connID uuid.UUID
	state  lifecycle
	conn   Conn // Owned by the event loop

	// Lifecycle
	once    sync.Once
	started atomic.Bool
	cancel  context.CancelFunc
	events  chan event
	clicks  chan click
	opened  chan struct{}
	done    chan struct{}

	// Counters
	framesSent     atomic.Int64
	framesReceived atomic.Int64
	framesDropped  atomic.Int64
}

// NewClient creates a Client. Nothing is dialed until Initialize.
// A nil transport selects gorilla; a nil sink discards events.
func NewClient(cfg Config, transport Transport, s sink.Sink, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if s == nil {
		s = sink.Discard
	}
	if transport == nil {
		transport = &GorillaTransport{WriteTimeout: cfg.WriteTimeout}
	}
	if cfg.EventBuffer < 1 {
		cfg.EventBuffer = DefaultEventBuffer
	}

	return &Client{
		cfg:       cfg,
		transport: transport,
		sink:      s,
		logger:    logger,
		connID:    uuid.New(),
		events:    make(chan event, cfg.EventBuffer),
		clicks:    make(chan click),
		opened:    make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Initialize creates the Connection and starts the handshake in the
// background. Only the first call has any effect.
func (c *Client) Initialize(ctx context.Context) error {
	if err := validateEndpoint(c.cfg.Endpoint); err != nil {
		return err
	}

	first := false
	c.once.Do(func() {
		first = true

		var loopCtx context.Context
		loopCtx, c.cancel = context.WithCancel(ctx)
		c.started.Store(true)

		c.emit(sink.Event{Kind: sink.KindConnecting})

		go c.loop(loopCtx)
		go c.dial(loopCtx)
	})

	if !first {
		c.logger.Debug("initialize ignored, connection already created", "conn_id", c.connID)
	}
	return nil
}

// SendClicked relays text as one outbound frame if the Connection is open.
// An empty text is ignored. It returns once the event loop has handled the
// click, or immediately if the Client is already done.
func (c *Client) SendClicked(text string) {
	if text == "" {
		return
	}

	if !c.started.Load() {
		c.drop(text, ErrNotOpen)
		return
	}

	cl := click{text: text, handled: make(chan struct{})}
	select {
	case c.clicks <- cl:
	case <-c.done:
		return
	}

	select {
	case <-cl.handled:
	case <-c.done:
	}
}

// Close tears the Connection down and waits for the event loop to exit.
// Closing before Initialize prevents any Connection from being created.
func (c *Client) Close() error {
	c.once.Do(func() {
		c.state.transition(StateClosed)
		close(c.done)
	})

	if c.cancel != nil {
		c.cancel()
	}
	<-c.done
	return nil
}

// Done is closed once the Connection has reached StateClosed and the event
// loop has stopped.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Opened is closed when the Connection reaches StateOpen. It is never
// closed if the handshake fails.
func (c *Client) Opened() <-chan struct{} {
	return c.opened
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	return c.state.current()
}

// ConnID returns the id assigned to this Client's Connection.
func (c *Client) ConnID() uuid.UUID {
	return c.connID
}

// Stats returns current counters.
func (c *Client) Stats() Stats {
	return Stats{
		ConnID:         c.connID,
		State:          c.state.current(),
		FramesSent:     c.framesSent.Load(),
		FramesReceived: c.framesReceived.Load(),
		FramesDropped:  c.framesDropped.Load(),
	}
}

// loop runs every handler one at a time until the Connection closes.
func (c *Client) loop(ctx context.Context) {
	defer close(c.done)

	for {
		select {
		case ev := <-c.events:
			switch ev.kind {
			case evOpen:
				c.onOpen(ctx, ev.conn)
			case evMessage:
				c.onMessage(ev.data)
			case evClose:
				c.onClose(ev.err)
				return
			}
		case cl := <-c.clicks:
			c.onSendClicked(ctx, cl.text)
			close(cl.handled)
		case <-ctx.Done():
			c.onClose(nil)
			return
		}
	}
}

// dial performs the handshake, then reads frames until the connection fails.
// The connection is closed once the event loop exits.
func (c *Client) dial(ctx context.Context) {
	conn, err := c.handshake(ctx)
	if err != nil {
		c.post(event{kind: evClose, err: err})
		return
	}

	go func() {
		<-c.done
		if err := conn.Close(); err != nil {
			c.logger.Debug("close connection", "conn_id", c.connID, "error", err)
		}
	}()

	if !c.post(event{kind: evOpen, conn: conn}) {
		return
	}

	for {
		data, err := conn.ReadMessage(ctx)
		if err != nil {
			c.post(event{kind: evClose, err: err})
			return
		}
		if !c.post(event{kind: evMessage, data: data}) {
			return
		}
	}
}

func (c *Client) handshake(ctx context.Context) (Conn, error) {
	if c.cfg.HandshakeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.HandshakeTimeout)
		defer cancel()
	}

	start := time.Now()
	conn, err := c.transport.Dial(ctx, c.cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.cfg.Endpoint, err)
	}

	c.logger.Debug("websocket connected",
		"conn_id", c.connID,
		"url", c.cfg.Endpoint,
		"duration", time.Since(start),
	)
	return conn, nil
}

// post hands an event to the loop. It returns false once the loop is gone.
func (c *Client) post(ev event) bool {
	select {
	case c.events <- ev:
		return true
	case <-c.done:
		return false
	}
}

func (c *Client) onOpen(ctx context.Context, conn Conn) {
	if err := c.state.transition(StateOpen); err != nil {
		c.logger.Warn("ignoring open event", "conn_id", c.connID, "error", err)
		return
	}
	c.conn = conn
	close(c.opened)
	c.emit(sink.Event{Kind: sink.KindOpen})

	if c.cfg.AutoGreet {
		c.send(ctx, c.cfg.Greeting)
	}
}

func (c *Client) onMessage(data string) {
	c.framesReceived.Add(1)
	c.emit(sink.Event{Kind: sink.KindMessage, Payload: data})
}

func (c *Client) onClose(cause error) {
	if err := c.state.transition(StateClosed); err != nil {
		return
	}
	c.conn = nil

	if errors.Is(cause, io.EOF) {
		cause = nil
	}
	c.emit(sink.Event{Kind: sink.KindClosed, Err: cause})
}

func (c *Client) onSendClicked(ctx context.Context, text string) {
	if err := c.send(ctx, text); err != nil {
		c.logger.Debug("send failed", "conn_id", c.connID, "error", err)
	}
}

// send writes one frame. Sends outside StateOpen never reach the transport.
func (c *Client) send(ctx context.Context, text string) error {
	if c.state.current() != StateOpen || c.conn == nil {
		c.drop(text, ErrNotOpen)
		return ErrNotOpen
	}

	if err := c.conn.WriteMessage(ctx, text); err != nil {
		c.drop(text, err)
		return err
	}

	c.framesSent.Add(1)
	c.emit(sink.Event{Kind: sink.KindSent, Payload: text})
	return nil
}

func (c *Client) drop(text string, err error) {
	c.framesDropped.Add(1)
	c.emit(sink.Event{Kind: sink.KindDropped, Payload: text, Err: err})
}

func (c *Client) emit(ev sink.Event) {
	ev.ConnID = c.connID
	ev.Endpoint = c.cfg.Endpoint
	ev.At = time.Now()
	c.sink.Emit(ev)
}

func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("endpoint %q: scheme must be ws or wss", endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint %q: host is required", endpoint)
	}
	return nil
}
