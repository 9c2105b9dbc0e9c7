package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Client.Endpoint == "" {
		return errors.New("client.endpoint is required")
	}
	u, err := url.Parse(c.Client.Endpoint)
	if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
		return fmt.Errorf("client.endpoint must be a ws:// or wss:// URL, got %q", c.Client.Endpoint)
	}

	switch c.Client.Transport {
	case "gorilla", "coder":
	default:
		return fmt.Errorf("client.transport must be gorilla or coder, got %q", c.Client.Transport)
	}

	if c.Client.AutoGreet && c.Client.Greeting == "" {
		return errors.New("client.greeting is required when client.auto_greet is set")
	}
	if c.Client.EventBuffer < 1 {
		return errors.New("client.event_buffer must be >= 1")
	}

	if c.UI.SendButtonID == "" {
		return errors.New("ui.send_button_id is required")
	}
	if c.UI.MessageInputID == "" {
		return errors.New("ui.message_input_id is required")
	}
	if c.UI.SendButtonID == c.UI.MessageInputID {
		return fmt.Errorf("ui.send_button_id and ui.message_input_id must differ, both are %q", c.UI.SendButtonID)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	if c.Journal.Enabled {
		if c.Journal.BatchSize < 1 {
			return errors.New("journal.batch_size must be >= 1")
		}
		if c.Journal.BufferSize < 1 {
			return errors.New("journal.buffer_size must be >= 1")
		}
		if err := c.Database.validate("database"); err != nil {
			return err
		}
	}

	if c.Health.Port < 0 || c.Health.Port > 65535 {
		return fmt.Errorf("health.port must be between 0 and 65535, got %d", c.Health.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
