package journal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rickgao/chatlink/internal/buffer"
	"github.com/rickgao/chatlink/internal/sink"
)

// Default values.
const (
	DefaultTable         = "connection_events"
	DefaultBatchSize     = 100
	DefaultFlushInterval = time.Second
	DefaultBufferSize    = 1000
)

// DB is the subset of *pgxpool.Pool the journal uses.
type DB interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Config configures a Writer.
type Config struct {
	Table         string        // Target table, optionally schema-qualified
	BatchSize     int           // Rows per COPY
	FlushInterval time.Duration // Max time a row waits before flush
	BufferSize    int           // Initial in-memory queue capacity
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Table:         DefaultTable,
		BatchSize:     DefaultBatchSize,
		FlushInterval: DefaultFlushInterval,
		BufferSize:    DefaultBufferSize,
	}
}

// Metrics tracks writer activity.
type Metrics struct {
	Inserts int64
	Flushes int64
	Errors  int64
	Dropped int64 // Events emitted after Stop

	Queue buffer.Stats
}

var columns = []string{"id", "conn_id", "kind", "endpoint", "payload", "error", "occurred_at"}

type eventRow struct {
	ID         uuid.UUID
	ConnID     uuid.UUID
	Kind       string
	Endpoint   string
	Payload    string
	Error      *string
	OccurredAt time.Time
}

// Writer batches sink events into the journal table.
type Writer struct {
	cfg    Config
	logger *slog.Logger
	db     DB

	input *buffer.Growable[sink.Event]

	// Batching
	batch   []eventRow
	batchMu sync.Mutex

	// Lifecycle
	ctx      context.Context // Used for every write; ended by Stop only
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	consumed chan struct{}

	metrics Metrics
}

// NewWriter creates a Writer. Call Start before emitting.
func NewWriter(cfg Config, db DB, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultFlushInterval
	}

	return &Writer{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		input:    buffer.New[sink.Event](cfg.BufferSize),
		batch:    make([]eventRow, 0, cfg.BatchSize),
		consumed: make(chan struct{}),
	}
}

// EnsureSchema creates the journal table if it does not exist.
func (w *Writer) EnsureSchema(ctx context.Context) error {
	table := identifier(w.cfg.Table).Sanitize()
	_, err := w.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+table+` (
			id          UUID PRIMARY KEY,
			conn_id     UUID NOT NULL,
			kind        TEXT NOT NULL,
			endpoint    TEXT NOT NULL,
			payload     TEXT NOT NULL DEFAULT '',
			error       TEXT,
			occurred_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}
	return nil
}

// Emit queues an event for writing. It never blocks.
func (w *Writer) Emit(ev sink.Event) {
	if !w.input.Send(ev) {
		w.batchMu.Lock()
		w.metrics.Dropped++
		w.batchMu.Unlock()
	}
}

// Start begins consuming events and writing to the database.
// Cancelling ctx does not stop the writer: queued events are still written
// until Stop, whose own context bounds the drain.
func (w *Writer) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(context.WithoutCancel(ctx))

	go w.consumeLoop()

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("journal writer started",
		"table", w.cfg.Table,
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop drains queued events, writes them, and shuts down. If ctx expires
// first, in-flight writes are aborted and the remaining events are lost.
// It reports write failures, including ones logged before Stop was called.
func (w *Writer) Stop(ctx context.Context) error {
	w.logger.Info("stopping journal writer")

	w.input.Close()

	var stopErr error
	select {
	case <-w.consumed:
	case <-ctx.Done():
		stopErr = fmt.Errorf("stop journal writer: %w", ctx.Err())
		w.logger.Warn("journal writer stop timed out", "pending", w.input.Len())
	}

	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()

	if stopErr != nil {
		return stopErr
	}

	// Final flush
	if err := w.flush(ctx); err != nil {
		return err
	}
	if failed := w.Stats().Errors; failed > 0 {
		return fmt.Errorf("%d journal writes failed", failed)
	}

	w.logger.Info("journal writer stopped")
	return nil
}

// Stats returns current metrics, including the state of the input queue.
func (w *Writer) Stats() Metrics {
	w.batchMu.Lock()
	m := w.metrics
	w.batchMu.Unlock()

	m.Queue = w.input.Stats()
	return m
}

// consumeLoop moves events from the queue into the batch until the queue
// is closed and empty.
func (w *Writer) consumeLoop() {
	defer close(w.consumed)

	for {
		ev, ok := w.input.Receive()
		if !ok {
			return
		}

		events := []sink.Event{ev}
		if n := w.cfg.BatchSize - 1; n > 0 {
			events = append(events, w.input.DrainTo(n)...)
		}
		w.handleEvents(events)
	}
}

// flushLoop periodically flushes the batch.
func (w *Writer) flushLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.flush(w.ctx)
		}
	}
}

func (w *Writer) handleEvents(events []sink.Event) {
	w.batchMu.Lock()
	for _, ev := range events {
		w.batch = append(w.batch, transform(ev))
	}
	shouldFlush := len(w.batch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	if shouldFlush {
		w.flush(w.ctx)
	}
}

func transform(ev sink.Event) eventRow {
	row := eventRow{
		ID:         uuid.New(),
		ConnID:     ev.ConnID,
		Kind:       string(ev.Kind),
		Endpoint:   ev.Endpoint,
		Payload:    ev.Payload,
		OccurredAt: ev.At,
	}
	if ev.Err != nil {
		msg := ev.Err.Error()
		row.Error = &msg
	}
	if row.OccurredAt.IsZero() {
		row.OccurredAt = time.Now()
	}
	return row
}

// flush writes the current batch with COPY. On failure the rows are lost
// and counted as an error.
func (w *Writer) flush(ctx context.Context) error {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return nil
	}

	// Take ownership of current batch
	batch := w.batch
	w.batch = make([]eventRow, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	rows := make([][]any, len(batch))
	for i, r := range batch {
		rows[i] = []any{r.ID, r.ConnID, r.Kind, r.Endpoint, r.Payload, r.Error, r.OccurredAt}
	}

	n, err := w.db.CopyFrom(ctx, identifier(w.cfg.Table), columns, pgx.CopyFromRows(rows))
	if err != nil {
		w.logger.Error("journal copy failed", "error", err, "count", len(batch))
		w.batchMu.Lock()
		w.metrics.Errors++
		w.batchMu.Unlock()
		return fmt.Errorf("copy %d events: %w", len(batch), err)
	}

	w.batchMu.Lock()
	w.metrics.Inserts += n
	w.metrics.Flushes++
	w.batchMu.Unlock()

	w.logger.Debug("flushed events",
		"count", n,
		"duration", time.Since(start),
	)
	return nil
}

// identifier splits an optionally schema-qualified table name.
func identifier(table string) pgx.Identifier {
	return pgx.Identifier(strings.Split(table, "."))
}
