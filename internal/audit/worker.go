package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from a channel, persists them, and forwards
// them to the streaming sink when one is configured. Sink failures are logged
// and skipped; the local store is the durable record.
type Worker struct {
	store  Store
	sink   *KafkaSink
	inbox  <-chan Event
	logger *slog.Logger
}

// NewWorker builds a worker. sink may be nil.
func NewWorker(store Store, sink *KafkaSink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, sink: sink, inbox: inbox, logger: logger}
}

// Run processes events until the context is canceled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "audit append failed", "action", event.Action, "error", err)
			}
			if w.sink != nil {
				if err := w.sink.Publish(ctx, event); err != nil {
					w.logger.WarnContext(ctx, "audit stream publish failed", "action", event.Action, "error", err)
				}
			}
		}
	}
}
