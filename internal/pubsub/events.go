// Package pubsub fans document events out to any number of listeners.
package pubsub

import (
	"context"
	"time"
)

// EventType names what happened to a document.
type EventType string

const (
	RelexedEvent    EventType = "relexed"    // lines were rescanned
	CheckpointEvent EventType = "checkpoint" // a change was written to history
	UndoEvent       EventType = "undo"
	RedoEvent       EventType = "redo"
	ReloadedEvent   EventType = "reloaded" // the backing file changed on disk
	LoggedEvent     EventType = "logged"   // a debug log line was written
)

// Event is a published payload stamped with its type and publish time.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber hands out event channels.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher accepts events for delivery.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
