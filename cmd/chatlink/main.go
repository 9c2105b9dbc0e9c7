// chatlink connects to a chat server over WebSocket and logs the connection
// lifecycle. By default each line typed on stdin is sent as a frame; with
// -auto-greet it sends a single greeting when the connection opens instead.
//
// Usage: go run ./cmd/chatlink --config configs/chatlink.example.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults apply when empty)")
	endpoint := flag.String("endpoint", "", "WebSocket endpoint, overrides client.endpoint")
	autoGreet := flag.Bool("auto-greet", false, "send the greeting on open instead of relaying stdin")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(versionString())
		return
	}

	cfg, err := loadConfig(*configPath, *endpoint, autoGreetOverride(autoGreet))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Set up structured logging
	logger := newLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting chatlink",
		"version", versionString(),
		"endpoint", cfg.Client.Endpoint,
		"auto_greet", cfg.Client.AutoGreet,
		"transport", cfg.Client.Transport,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if err := run(ctx, cfg, os.Stdin, logger); err != nil {
		logger.Error("chatlink failed", "error", err)
		os.Exit(1)
	}

	logger.Info("chatlink stopped")
}

// autoGreetOverride returns the -auto-greet value only if the flag was set.
func autoGreetOverride(v *bool) *bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "auto-greet" {
			set = true
		}
	})
	if !set {
		return nil
	}
	return v
}
