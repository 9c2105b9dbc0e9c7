package sink

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies what happened on the connection.
type Kind string

const (
	KindConnecting Kind = "connecting"
	KindOpen       Kind = "open"
	KindMessage    Kind = "message"
	KindSent       Kind = "sent"
	KindDropped    Kind = "dropped"
	KindClosed     Kind = "closed"
)

// Event is a single lifecycle observation.
type Event struct {
	Kind     Kind
	ConnID   uuid.UUID
	Endpoint string
	Payload  string // Frame text for message/sent/dropped
	Err      error  // Close cause or send failure, diagnostics only
	At       time.Time
}

// Sink receives events. Emit must not block for long: it is called from the
// client's event loop.
type Sink interface {
	Emit(ev Event)
}

// Func adapts a plain function to the Sink interface.
type Func func(ev Event)

// Emit calls f(ev).
func (f Func) Emit(ev Event) { f(ev) }

// Discard drops every event.
var Discard Sink = Func(func(Event) {})

type tee []Sink

func (t tee) Emit(ev Event) {
	for _, s := range t {
		s.Emit(ev)
	}
}

// Tee returns a Sink that forwards each event to all non-nil sinks in order.
func Tee(sinks ...Sink) Sink {
	out := make(tee, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}
