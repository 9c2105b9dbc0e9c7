// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// Every field has a default, so an empty file yields a working client that
// connects to ws://localhost:4040/ws and relays console input.
package config
