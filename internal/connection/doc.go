// Package connection implements the chat client's single WebSocket connection.
//
// A Client owns exactly one Connection per lifecycle:
//   - Initialize dials once; later calls are ignored
//   - State moves Connecting -> Open -> Closed and never reopens
//   - Transport events and UI clicks run one at a time on an event loop
//   - Every observation is emitted to a sink.Sink
//
// There is no reconnection: once closed, the Client is done.
package connection
