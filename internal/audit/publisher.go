package audit

import (
	"context"
	"log/slog"
	"time"
)

// Publisher hands audit events to the background worker over a bounded
// channel. Emitting never blocks domain logic: when the channel is full the
// event is dropped with a warning, because issuance must not stall on its
// audit trail.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

// NewPublisher builds a publisher with the given inbox capacity.
func NewPublisher(capacity int, logger *slog.Logger) *Publisher {
	return &Publisher{
		inbox:  make(chan Event, capacity),
		logger: logger,
	}
}

// Emit stamps and queues the event. Nil-safe so components that audit
// optionally can hold a nil publisher.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if p == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit inbox full, dropping event", "action", event.Action)
	}
}

// Inbox is the worker's read side of the queue.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}
