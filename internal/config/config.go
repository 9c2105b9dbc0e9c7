package config

import "time"

// Config is the root configuration for a chatlink client.
type Config struct {
	Client   ClientConfig  `yaml:"client"`
	UI       UIConfig      `yaml:"ui"`
	Log      LogConfig     `yaml:"log"`
	Journal  JournalConfig `yaml:"journal"`
	Database DBConfig      `yaml:"database"`
	Health   HealthConfig  `yaml:"health"`
}

// ClientConfig holds WebSocket connection settings.
type ClientConfig struct {
	Endpoint         string        `yaml:"endpoint"`
	AutoGreet        bool          `yaml:"auto_greet"` // Send Greeting on open instead of relaying the UI
	Greeting         string        `yaml:"greeting"`
	Transport        string        `yaml:"transport"` // "gorilla" or "coder"
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	EventBuffer      int           `yaml:"event_buffer"`
}

// UIConfig names the input surface elements.
type UIConfig struct {
	SendButtonID   string `yaml:"send_button_id"`
	MessageInputID string `yaml:"message_input_id"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// JournalConfig holds event journal settings. The journal writes to Database.
type JournalConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Table         string        `yaml:"table"`
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// HealthConfig holds the health endpoint settings. Port 0 disables it.
type HealthConfig struct {
	Port int `yaml:"port"`
}
