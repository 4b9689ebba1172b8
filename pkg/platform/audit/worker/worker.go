// Package worker drains queued audit events into a store.
package worker

import (
	"context"

	audit "warden/pkg/platform/audit"
)

// Sink receives one event at a time.
type Sink func(ctx context.Context, event audit.Event)

// Worker consumes events from inbox until the channel closes or ctx ends.
type Worker struct {
	inbox <-chan audit.Event
	sink  Sink
}

func NewWorker(inbox <-chan audit.Event, sink Sink) *Worker {
	return &Worker{inbox: inbox, sink: sink}
}

// Run returns nil after draining a closed inbox, or ctx.Err on cancellation.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			w.sink(ctx, event)
		}
	}
}
