package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/equiptrack/inventory-management/internal"
	"github.com/equiptrack/inventory-management/internal/auth"
)

const (
	// DefaultQueueSize bounds the in-flight backlog; events past it are
	// dropped rather than blocking request handlers.
	DefaultQueueSize = 256

	// DefaultWriteTimeout caps how long one insert may hold the drain
	// goroutine.
	DefaultWriteTimeout = 5 * time.Second
)

// Writer appends audit events through a bounded queue drained by a single
// background goroutine. The queue makes the fire-and-forget contract
// explicit: Record enqueues and returns, and every downstream failure is
// logged and discarded.
type Writer struct {
	store        Store
	logger       *slog.Logger
	queue        chan Event
	writeTimeout time.Duration

	closeOnce sync.Once
	done      chan struct{}
}

func NewWriter(store Store, logger *slog.Logger, queueSize int, writeTimeout time.Duration) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}

	w := &Writer{
		store:        store,
		logger:       logger,
		queue:        make(chan Event, queueSize),
		writeTimeout: writeTimeout,
		done:         make(chan struct{}),
	}
	go w.drain()
	return w
}

// Record accepts one event for the identity. Without a resolvable actor the
// event is silently skipped; a full queue drops it with a log line. Record
// never blocks on storage and never returns an error.
func (w *Writer) Record(ident *auth.Identity, moduleID, actionID int, details string) {
	if !ident.Resolved() {
		return
	}

	event := Event{
		ActorID:    ident.UserID,
		ModuleID:   moduleID,
		ActionID:   actionID,
		Details:    details,
		OccurredAt: time.Now(),
	}

	select {
	case w.queue <- event:
	default:
		w.logger.Warn("audit queue full, dropping event",
			"actor_id", event.ActorID,
			"module_id", moduleID,
			"action_id", actionID)
	}
}

// RecordSync writes one event directly, bypassing the queue. The seeder and
// tests use it; request handlers go through Record.
func (w *Writer) RecordSync(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	return w.store.Insert(ctx, event)
}

func (w *Writer) drain() {
	for event := range w.queue {
		ctx, cancel := internal.WithTimeout(context.Background(), w.writeTimeout)
		if err := w.store.Insert(ctx, event); err != nil {
			// Audit failures must never surface to the caller; the
			// operational log is the only place they show up.
			w.logger.Error("audit insert failed",
				"actor_id", event.ActorID,
				"module_id", event.ModuleID,
				"action_id", event.ActionID,
				"error", err)
		}
		cancel()
	}
	close(w.done)
}

// Close stops accepting events, flushes the backlog and waits for the
// drain goroutine to finish.
func (w *Writer) Close() {
	w.closeOnce.Do(func() {
		close(w.queue)
	})
	<-w.done
}
