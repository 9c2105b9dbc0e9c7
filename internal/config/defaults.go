package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultEndpoint         = "ws://localhost:4040/ws"
	DefaultGreeting         = "HI, SERVER!"
	DefaultTransport        = "gorilla"
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultWriteTimeout     = 5 * time.Second
	DefaultEventBuffer      = 256
	DefaultSendButtonID     = "send-btn"
	DefaultMessageInputID   = "message-input"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultJournalTable     = "connection_events"
	DefaultBatchSize        = 100
	DefaultFlushInterval    = 1 * time.Second
	DefaultBufferSize       = 1000
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 4
	DefaultMinConns         = 1
)

// ApplyDefaults fills every zero-valued optional field.
func (c *Config) ApplyDefaults() {
	// Client defaults
	if c.Client.Endpoint == "" {
		c.Client.Endpoint = DefaultEndpoint
	}
	if c.Client.Greeting == "" {
		c.Client.Greeting = DefaultGreeting
	}
	if c.Client.Transport == "" {
		c.Client.Transport = DefaultTransport
	}
	if c.Client.HandshakeTimeout == 0 {
		c.Client.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Client.WriteTimeout == 0 {
		c.Client.WriteTimeout = DefaultWriteTimeout
	}
	if c.Client.EventBuffer == 0 {
		c.Client.EventBuffer = DefaultEventBuffer
	}

	// UI defaults
	if c.UI.SendButtonID == "" {
		c.UI.SendButtonID = DefaultSendButtonID
	}
	if c.UI.MessageInputID == "" {
		c.UI.MessageInputID = DefaultMessageInputID
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}

	// Journal defaults
	if c.Journal.Table == "" {
		c.Journal.Table = DefaultJournalTable
	}
	if c.Journal.BatchSize == 0 {
		c.Journal.BatchSize = DefaultBatchSize
	}
	if c.Journal.FlushInterval == 0 {
		c.Journal.FlushInterval = DefaultFlushInterval
	}
	if c.Journal.BufferSize == 0 {
		c.Journal.BufferSize = DefaultBufferSize
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}
}
