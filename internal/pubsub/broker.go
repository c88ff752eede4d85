package pubsub

import (
	"context"
	"slices"
	"sync"
	"time"
)

const defaultBufferSize = 64

// subscription is one listener channel plus the event types it accepts.
// An empty filter accepts every type.
type subscription[T any] struct {
	ch     chan Event[T]
	filter []EventType
}

func (s *subscription[T]) accepts(t EventType) bool {
	return len(s.filter) == 0 || slices.Contains(s.filter, t)
}

// Broker delivers published events to every live subscription. Delivery
// never blocks the publisher: a subscriber whose buffer is full misses the
// event.
type Broker[T any] struct {
	mu         sync.RWMutex
	subs       map[*subscription[T]]struct{}
	closed     chan struct{}
	bufferSize int
	now        func() time.Time
}

// NewBroker creates a broker whose subscriptions buffer 64 events.
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](defaultBufferSize)
}

// NewBrokerWithBuffer creates a broker with a custom subscription buffer.
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	if size < 0 {
		size = 0
	}
	return &Broker[T]{
		subs:       make(map[*subscription[T]]struct{}),
		closed:     make(chan struct{}),
		bufferSize: size,
		now:        time.Now,
	}
}

// Subscribe returns a channel receiving every event. The channel is closed
// when ctx is cancelled or the broker is closed.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	return b.SubscribeTypes(ctx)
}

// SubscribeTypes is Subscribe restricted to the given event types.
func (b *Broker[T]) SubscribeTypes(ctx context.Context, types ...EventType) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.isClosed() {
		ch := make(chan Event[T])
		close(ch)
		return ch
	}

	sub := &subscription[T]{
		ch:     make(chan Event[T], b.bufferSize),
		filter: slices.Clone(types),
	}
	b.subs[sub] = struct{}{}

	go func() {
		select {
		case <-ctx.Done():
		case <-b.closed:
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[sub]; ok {
			delete(b.subs, sub)
			close(sub.ch)
		}
	}()

	return sub.ch
}

// Publish sends an event to all matching subscriptions.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.isClosed() {
		return
	}

	event := Event[T]{Type: eventType, Payload: payload, Timestamp: b.now()}
	for sub := range b.subs {
		if !sub.accepts(eventType) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
}

// Close closes every subscription channel. Publishing after Close is a no-op.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.isClosed() {
		return
	}
	close(b.closed)
	for sub := range b.subs {
		close(sub.ch)
	}
	clear(b.subs)
}

// SubscriberCount returns the number of live subscriptions.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Broker[T]) isClosed() bool {
	select {
	case <-b.closed:
		return true
	default:
		return false
	}
}
