package events

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Bus is the central event bus for player events.
// Delivery never blocks the publisher: a subscriber whose buffer is full
// misses the event and the drop is counted.
type Bus struct {
	mu      sync.RWMutex
	subs    []*subscription
	log     *EventLog // SQLite persistence (may be nil)
	logger  *slog.Logger
	closed  bool
	dropped atomic.Int64
}

// subscription is one subscriber channel and the events it wants.
type subscription struct {
	ch    chan Event
	match func(Event) bool
	label string
	done  bool // channel closed, guarded by Bus.mu
}

// NewBus creates a new event bus.
// The EventLog is optional - pass nil to disable persistence.
func NewBus(log *EventLog, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		log:    log,
		logger: logger,
	}
}

// Publish persists e when the bus has a log, then offers it to every
// matching subscriber. It returns nil after Close.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return nil
	}
	targets := make([]*subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if s.match(e) {
			targets = append(targets, s)
		}
	}
	b.mu.RUnlock()

	if b.log != nil {
		if _, err := b.log.Append(e); err != nil {
			// Delivery still happens.
			b.logger.Error("failed to persist event", "type", e.EventType(), "error", err)
		}
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}
	for _, s := range targets {
		if s.done {
			continue
		}
		select {
		case s.ch <- e:
		default:
			b.dropped.Add(1)
			b.logger.Warn("subscriber channel full, dropping event",
				"subscription", s.label,
				"type", e.EventType(),
				"entity_id", e.EntityID())
		}
	}
	return nil
}

// Dropped returns how many deliveries were skipped because a subscriber was full.
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

// Subscribe returns a channel for events of a specific type.
func (b *Bus) Subscribe(eventType string, bufferSize int) <-chan Event {
	return b.add(eventType, bufferSize, func(e Event) bool {
		return e.EventType() == eventType
	})
}

// SubscribeAll returns a channel for all events.
func (b *Bus) SubscribeAll(bufferSize int) <-chan Event {
	return b.add("*", bufferSize, func(Event) bool { return true })
}

// SubscribePlayer returns every event about one player.
func (b *Bus) SubscribePlayer(playerID int64, bufferSize int) <-chan Event {
	return b.add("player", bufferSize, func(e Event) bool {
		return e.EntityType() == EntityPlayer && e.EntityID() == playerID
	})
}

func (b *Bus) add(label string, bufferSize int, match func(Event) bool) <-chan Event {
	s := &subscription{
		ch:    make(chan Event, bufferSize),
		match: match,
		label: label,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(s.ch)
		return s.ch
	}
	b.subs = append(b.subs, s)
	return s.ch
}

// Unsubscribe removes a subscription and closes its channel. Unknown
// channels are ignored.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.ch == ch {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			s.done = true
			close(s.ch)
			return
		}
	}
}

// Close shuts down the bus and closes all subscriber channels.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for _, s := range b.subs {
		s.done = true
		close(s.ch)
	}
	b.subs = nil
	return nil
}
