// Package sink defines where connection lifecycle events go.
//
// Every observable thing the client does (connecting, open, inbound frame,
// outbound frame, dropped send, close) is emitted as an Event to a Sink.
// The Logger sink writes to slog; the Recorder keeps events in memory.
package sink
