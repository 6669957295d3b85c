package events

import (
	"context"
	"log/slog"
)

// Hook is an in-process collaborator callback for formed matches.
type Hook func(ctx context.Context, event MatchFormed)

// Inbox is the buffered publisher feeding the in-process Worker. Used when no
// Kafka transport is configured. Publishing never blocks: if the buffer is
// full the event is dropped and logged, which fire-and-forget permits.
type Inbox struct {
	outbox chan MatchFormed
	logger *slog.Logger
}

// NewInbox creates the publisher side and the channel the Worker consumes.
func NewInbox(buffer int, logger *slog.Logger) *Inbox {
	if buffer <= 0 {
		buffer = 64
	}
	return &Inbox{outbox: make(chan MatchFormed, buffer), logger: logger}
}

func (i *Inbox) PublishMatchFormed(_ context.Context, event MatchFormed) error {
	select {
	case i.outbox <- event:
	default:
		i.logger.Warn("match event dropped: inbox full", "match_id", event.MatchID)
	}
	return nil
}

// Events exposes the consuming side for the Worker.
func (i *Inbox) Events() <-chan MatchFormed { return i.outbox }

// Worker consumes formed-match events from an inbox and invokes the hooks.
// It keeps background notification fan-out testable without a broker.
type Worker struct {
	inbox <-chan MatchFormed
	hooks []Hook
}

// NewWorker wires hooks to an inbox.
func NewWorker(inbox <-chan MatchFormed, hooks ...Hook) *Worker {
	return &Worker{inbox: inbox, hooks: hooks}
}

// Run dispatches events until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			for _, hook := range w.hooks {
				hook(ctx, event)
			}
		}
	}
}
