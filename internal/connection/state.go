package connection

import (
	"fmt"
	"sync"
)

// State is the lifecycle position of the single Connection.
type State int32

const (
	// StateConnecting means the handshake has been started but not completed.
	StateConnecting State = iota

	// StateOpen means the handshake completed and frames can be sent.
	StateOpen

	// StateClosed is terminal. There is no way back to Connecting or Open.
	StateClosed
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// canTransition reports whether from -> to is a legal move.
func canTransition(from, to State) bool {
	switch from {
	case StateConnecting:
		return to == StateOpen || to == StateClosed
	case StateOpen:
		return to == StateClosed
	default:
		return false
	}
}

// lifecycle guards State so it only ever moves forward.
type lifecycle struct {
	mu    sync.RWMutex
	state State
}

// transition moves to the next state or returns ErrInvalidTransition.
func (l *lifecycle) transition(to State) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !canTransition(l.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, l.state, to)
	}
	l.state = to
	return nil
}

func (l *lifecycle) current() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}
