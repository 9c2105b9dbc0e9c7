// Package journal persists connection events to PostgreSQL.
//
// The Writer is a sink.Sink: Emit enqueues into an in-memory buffer and
// never blocks the client's event loop. A consumer goroutine batches
// events and appends them with COPY, flushing on batch size or on a timer.
//
// The journal is append-only (never update, only insert).
package journal
