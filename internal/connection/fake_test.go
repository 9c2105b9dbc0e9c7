package connection

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
)

var errFakeClosed = errors.New("use of closed connection")

// fakeConn is an in-memory Conn. Closing inbound simulates a clean remote close.
type fakeConn struct {
	inbound chan string

	mu      sync.Mutex
	written []string

	closeOnce sync.Once
	closed    chan struct{}
	closeErr  error
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound: make(chan string, 64),
		closed:  make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage(ctx context.Context) (string, error) {
	select {
	case s, ok := <-c.inbound:
		if !ok {
			return "", io.EOF
		}
		return s, nil
	case <-c.closed:
		return "", errFakeClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *fakeConn) WriteMessage(_ context.Context, text string) error {
	select {
	case <-c.closed:
		return errFakeClosed
	default:
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.written = append(c.written, text)
	return nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return c.closeErr
}

func (c *fakeConn) Written() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.written))
	copy(out, c.written)
	return out
}

// fakeTransport hands out a single fakeConn. When release is non-nil the
// handshake blocks until it is closed.
type fakeTransport struct {
	conn    *fakeConn
	err     error
	release chan struct{}
	dials   atomic.Int32
}

func (t *fakeTransport) Dial(ctx context.Context, _ string) (Conn, error) {
	t.dials.Add(1)

	if t.release != nil {
		select {
		case <-t.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if t.err != nil {
		return nil, t.err
	}
	return t.conn, nil
}
