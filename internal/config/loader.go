package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the chatlink YAML file at path. References such as
// ${CHATLINK_DB_PASSWORD} are replaced from the environment before parsing,
// and unset variables become empty strings.
//
// No defaults are applied, so fields missing from the file stay zero. An
// empty path is not an error: chatlink can run from flags alone, and the
// caller gets an empty Config to fill in.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadWithDefaults is Load followed by ApplyDefaults.
func LoadWithDefaults(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// LoadAndValidate returns a Config that is ready for use: loaded, defaulted
// and checked. The binary does the same steps itself because it applies
// flag overrides between loading and defaulting.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
