package ports

import "context"

// EventPublisher delivers drained domain events to the event bus. Publish is
// called once per event, in FIFO order, and returns the broker message id.
type EventPublisher interface {
	Publish(ctx context.Context, eventName string, payload map[string]any) (string, error)
}
