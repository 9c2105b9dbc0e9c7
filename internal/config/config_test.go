package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
client:
  endpoint: ws://chat.example.com:4040/ws
  auto_greet: true
  transport: coder
  handshake_timeout: 3s
ui:
  send_button_id: go
log:
  level: debug
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Client.Endpoint != "ws://chat.example.com:4040/ws" {
		t.Errorf("Client.Endpoint = %q, want %q", cfg.Client.Endpoint, "ws://chat.example.com:4040/ws")
	}
	if !cfg.Client.AutoGreet {
		t.Error("Client.AutoGreet = false, want true")
	}
	if cfg.Client.Transport != "coder" {
		t.Errorf("Client.Transport = %q, want coder", cfg.Client.Transport)
	}
	if cfg.Client.HandshakeTimeout != 3*time.Second {
		t.Errorf("Client.HandshakeTimeout = %v, want 3s", cfg.Client.HandshakeTimeout)
	}
	if cfg.UI.SendButtonID != "go" {
		t.Errorf("UI.SendButtonID = %q, want go", cfg.UI.SendButtonID)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret123")
	t.Setenv("TEST_CHAT_HOST", "chat.internal")

	yaml := `
client:
  endpoint: ws://${TEST_CHAT_HOST}:4040/ws
journal:
  enabled: true
database:
  host: localhost
  name: chatlink
  user: chat
  password: ${TEST_DB_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}

	if cfg.Database.Password != "secret123" {
		t.Errorf("Database.Password = %q, want %q", cfg.Database.Password, "secret123")
	}
	if cfg.Client.Endpoint != "ws://chat.internal:4040/ws" {
		t.Errorf("Client.Endpoint = %q, want ws://chat.internal:4040/ws", cfg.Client.Endpoint)
	}
}

func TestLoadUnsetVariableIsEmpty(t *testing.T) {
	t.Setenv("CHATLINK_TEST_UNSET", "")
	os.Unsetenv("CHATLINK_TEST_UNSET")

	cfg, err := Load(writeTempFile(t, "client:\n  greeting: \"hello${CHATLINK_TEST_UNSET}\"\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Client.Greeting != "hello" {
		t.Errorf("Client.Greeting = %q, want %q", cfg.Client.Greeting, "hello")
	}
	if cfg.Client.Endpoint != "" {
		t.Errorf("Client.Endpoint = %q, want empty before defaults", cfg.Client.Endpoint)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeTempFile(t, "log:\n  format: json\n")

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Client.Endpoint != DefaultEndpoint {
		t.Errorf("Client.Endpoint = %q, want default %q", cfg.Client.Endpoint, DefaultEndpoint)
	}
	if cfg.Client.Greeting != DefaultGreeting {
		t.Errorf("Client.Greeting = %q, want default %q", cfg.Client.Greeting, DefaultGreeting)
	}
	if cfg.Client.AutoGreet {
		t.Error("Client.AutoGreet should default to false")
	}
	if cfg.UI.SendButtonID != "send-btn" || cfg.UI.MessageInputID != "message-input" {
		t.Errorf("UI = %+v, want send-btn/message-input", cfg.UI)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json (explicit value kept)", cfg.Log.Format)
	}
	if cfg.Database.Port != DefaultDBPort {
		t.Errorf("Database.Port = %d, want default %d", cfg.Database.Port, DefaultDBPort)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := LoadAndValidate("")
	if err != nil {
		t.Fatalf("LoadAndValidate(\"\") failed: %v", err)
	}
	if cfg.Client.Endpoint != DefaultEndpoint {
		t.Errorf("Client.Endpoint = %q, want default", cfg.Client.Endpoint)
	}
}

func TestLoadErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := Load(missing); err == nil {
		t.Error("expected error for missing file")
	} else if !strings.Contains(err.Error(), missing) {
		t.Errorf("error %q should name the file", err)
	}
	if _, err := Load(writeTempFile(t, "client: [not a map")); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.ApplyDefaults()
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "http endpoint",
			mutate:  func(c *Config) { c.Client.Endpoint = "http://localhost:4040/ws" },
			wantErr: `client.endpoint must be a ws:// or wss:// URL, got "http://localhost:4040/ws"`,
		},
		{
			name:    "unknown transport",
			mutate:  func(c *Config) { c.Client.Transport = "quic" },
			wantErr: `client.transport must be gorilla or coder, got "quic"`,
		},
		{
			name: "auto greet without greeting",
			mutate: func(c *Config) {
				c.Client.AutoGreet = true
				c.Client.Greeting = ""
			},
			wantErr: "client.greeting is required when client.auto_greet is set",
		},
		{
			name: "same ui ids",
			mutate: func(c *Config) {
				c.UI.MessageInputID = "x"
				c.UI.SendButtonID = "x"
			},
			wantErr: `ui.send_button_id and ui.message_input_id must differ, both are "x"`,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: `log.level must be debug, info, warn or error, got "trace"`,
		},
		{
			name:    "journal without database host",
			mutate:  func(c *Config) { c.Journal.Enabled = true },
			wantErr: "database.host is required",
		},
		{
			name: "journal min_conns exceeds max_conns",
			mutate: func(c *Config) {
				c.Journal.Enabled = true
				c.Database = DBConfig{Host: "localhost", Name: "db", User: "user", Password: "pass", MaxConns: 5, MinConns: 10}
			},
			wantErr: "database.min_conns (10) cannot exceed max_conns (5)",
		},
		{
			name:    "health port out of range",
			mutate:  func(c *Config) { c.Health.Port = 70000 },
			wantErr: "health.port must be between 0 and 65535, got 70000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoadExampleConfig(t *testing.T) {
	t.Setenv("CHATLINK_DB_PASSWORD", "example")

	cfg, err := LoadAndValidate(filepath.Join("..", "..", "configs", "chatlink.example.yaml"))
	if err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}
	if cfg.Client.Endpoint != DefaultEndpoint {
		t.Errorf("Client.Endpoint = %q, want %q", cfg.Client.Endpoint, DefaultEndpoint)
	}
	if cfg.Database.Password != "example" {
		t.Errorf("Database.Password = %q, want example", cfg.Database.Password)
	}
}
