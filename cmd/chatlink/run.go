package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/chatlink/internal/config"
	"github.com/rickgao/chatlink/internal/connection"
	"github.com/rickgao/chatlink/internal/database"
	"github.com/rickgao/chatlink/internal/journal"
	"github.com/rickgao/chatlink/internal/sink"
	"github.com/rickgao/chatlink/internal/ui"
	"github.com/rickgao/chatlink/internal/version"
)

const shutdownTimeout = 10 * time.Second

func versionString() string {
	return version.String()
}

// loadConfig loads the file (if any), applies flag overrides, then defaults,
// then validates.
func loadConfig(path, endpoint string, autoGreet *bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if endpoint != "" {
		cfg.Client.Endpoint = endpoint
	}
	if autoGreet != nil {
		cfg.Client.AutoGreet = *autoGreet
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the slog logger selected by cfg.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// run creates the single connection and blocks until it is closed, either
// by the server, by ctx, or by the end of input.
func run(ctx context.Context, cfg *config.Config, input io.Reader, logger *slog.Logger) error {
	sinks := []sink.Sink{sink.NewLogger(logger)}
	var journalStats journalSource

	if cfg.Journal.Enabled {
		logger.Info("connecting to database",
			"host", cfg.Database.Host,
			"port", cfg.Database.Port,
			"database", cfg.Database.Name,
		)

		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()

		jw := journal.NewWriter(journal.Config{
			Table:         cfg.Journal.Table,
			BatchSize:     cfg.Journal.BatchSize,
			FlushInterval: cfg.Journal.FlushInterval,
			BufferSize:    cfg.Journal.BufferSize,
		}, pool, logger)

		if err := jw.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("journal schema: %w", err)
		}
		if err := jw.Start(ctx); err != nil {
			return fmt.Errorf("start journal: %w", err)
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()
			if err := jw.Stop(shutdownCtx); err != nil {
				logger.Error("journal stop failed", "error", err)
			}
		}()

		sinks = append(sinks, jw)
		journalStats = jw
	}

	header := http.Header{}
	header.Set("User-Agent", version.UserAgent())

	transport, err := connection.NewTransport(cfg.Client.Transport, cfg.Client.WriteTimeout, header)
	if err != nil {
		return err
	}

	client := connection.NewClient(connection.Config{
		Endpoint:         cfg.Client.Endpoint,
		AutoGreet:        cfg.Client.AutoGreet,
		Greeting:         cfg.Client.Greeting,
		HandshakeTimeout: cfg.Client.HandshakeTimeout,
		WriteTimeout:     cfg.Client.WriteTimeout,
		EventBuffer:      cfg.Client.EventBuffer,
	}, transport, sink.Tee(sinks...), logger)

	g, gctx := errgroup.WithContext(ctx)

	if err := client.Initialize(gctx); err != nil {
		return err
	}

	if !cfg.Client.AutoGreet {
		console, err := newConsole(cfg.UI, client, logger)
		if err != nil {
			client.Close()
			return err
		}

		// Input is accepted once the connection is open. The reader is not
		// tracked by the group: a blocked terminal read cannot be interrupted.
		go func() {
			select {
			case <-client.Opened():
			case <-client.Done():
				return
			}
			if err := console.Run(gctx, input); err != nil {
				logger.Error("console input failed", "error", err)
			}
			client.Close()
		}()
	}

	if cfg.Health.Port > 0 {
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Health.Port),
			Handler:           healthHandler(client, journalStats, logger),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			logger.Info("starting health server", "port", cfg.Health.Port)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("health server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-client.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		select {
		case <-client.Done():
		case <-gctx.Done():
		}
		return client.Close()
	})

	return g.Wait()
}

// newConsole wires the send button to the client and returns a Console that
// drives the form from line input.
func newConsole(cfg config.UIConfig, client *connection.Client, logger *slog.Logger) (*ui.Console, error) {
	form := ui.NewForm(cfg.MessageInputID, cfg.SendButtonID)

	err := form.OnClick(cfg.SendButtonID, func() {
		text, err := form.Value(cfg.MessageInputID)
		if err != nil {
			return
		}
		client.SendClicked(text)
	})
	if err != nil {
		return nil, err
	}

	return ui.NewConsole(form, cfg.MessageInputID, cfg.SendButtonID, logger), nil
}
