package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rickgao/chatlink/internal/connection"
	"github.com/rickgao/chatlink/internal/journal"
)

type statsSource interface {
	Stats() connection.Stats
}

type journalSource interface {
	Stats() journal.Metrics
}

type healthResponse struct {
	Status         string         `json:"status"`
	State          string         `json:"state"`
	ConnectionID   string         `json:"connection_id"`
	FramesSent     int64          `json:"frames_sent"`
	FramesReceived int64          `json:"frames_received"`
	FramesDropped  int64          `json:"frames_dropped"`
	Journal        *journalHealth `json:"journal,omitempty"`
}

type journalHealth struct {
	Inserts       int64 `json:"inserts"`
	Flushes       int64 `json:"flushes"`
	Errors        int64 `json:"errors"`
	Dropped       int64 `json:"dropped"`
	Pending       int   `json:"pending"`
	QueueCapacity int   `json:"queue_capacity"`
}

// healthHandler reports the connection state. A closed connection is
// unhealthy because it never reopens. jsrc is nil when the journal is off.
func healthHandler(src statsSource, jsrc journalSource, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		stats := src.Stats()

		resp := healthResponse{
			Status:         "healthy",
			State:          stats.State.String(),
			ConnectionID:   stats.ConnID.String(),
			FramesSent:     stats.FramesSent,
			FramesReceived: stats.FramesReceived,
			FramesDropped:  stats.FramesDropped,
		}

		switch stats.State {
		case connection.StateConnecting:
			resp.Status = "degraded"
		case connection.StateClosed:
			resp.Status = "unhealthy"
		}

		if jsrc != nil {
			m := jsrc.Stats()
			resp.Journal = &journalHealth{
				Inserts:       m.Inserts,
				Flushes:       m.Flushes,
				Errors:        m.Errors,
				Dropped:       m.Dropped,
				Pending:       m.Queue.Count,
				QueueCapacity: m.Queue.Capacity,
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if resp.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Debug("write health response", "error", err)
		}
	})

	return mux
}
