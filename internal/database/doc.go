// Package database provides PostgreSQL connection pool management.
//
// The only consumer is the event journal, which appends connection
// lifecycle events to a single table.
package database
