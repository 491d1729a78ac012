// Package pubsub fans build events out to any number of subscribers.
package pubsub

import (
	"context"
	"time"
)

// EventType names what an event carries.
type EventType string

// EntryWritten is published once per log entry after it reaches the sink.
const EntryWritten EventType = "entry.written"

// Event is one published payload, stamped when the broker accepted it.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber hands out event channels that close with ctx.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher accepts events without blocking the caller.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
