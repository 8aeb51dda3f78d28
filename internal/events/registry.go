// internal/events/registry.go
package events

import (
	"encoding/json"
	"fmt"
)

// EventFactory creates a new zero-value event of a specific type.
type EventFactory func() Event

// Registry maps event types to their factories for deserialization.
type Registry struct {
	factories map[string]EventFactory
}

// NewRegistry creates a new event registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]EventFactory),
	}
}

// Register adds an event type to the registry.
func (r *Registry) Register(eventType string, factory EventFactory) {
	r.factories[eventType] = factory
}

// Unmarshal deserializes a raw event into its concrete type.
func (r *Registry) Unmarshal(raw RawEvent) (Event, error) {
	factory, ok := r.factories[raw.EventType]
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", raw.EventType)
	}

	event := factory()
	if err := json.Unmarshal([]byte(raw.Payload), event); err != nil {
		return nil, fmt.Errorf("unmarshal event payload: %w", err)
	}

	return event, nil
}

// Types returns the number of registered event types.
func (r *Registry) Types() int {
	return len(r.factories)
}

// DefaultRegistry returns a registry with all standard event types registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	// Host payload events
	r.Register(EventPlayerPrepared, func() Event { return &PlayerPrepared{} })
	r.Register(EventPlayerStateChanged, func() Event { return &PlayerStateChanged{} })
	r.Register(EventPlayerRenderingStart, func() Event { return &PlayerRenderingStart{} })
	r.Register(EventPlayerFreeze, func() Event { return &PlayerFreeze{} })
	r.Register(EventPlayerBuffering, func() Event { return &PlayerBuffering{} })
	r.Register(EventPlayerPosition, func() Event { return &PlayerPosition{} })
	r.Register(EventPlayerRotated, func() Event { return &PlayerRotated{} })
	r.Register(EventPlayerSizeChanged, func() Event { return &PlayerSizeChanged{} })
	r.Register(EventPlayerSeekCompleted, func() Event { return &PlayerSeekCompleted{} })
	r.Register(EventPlayerError, func() Event { return &PlayerError{} })

	// Dispatch diagnostics
	r.Register(EventPlayerCodeIgnored, func() Event { return &PlayerCodeIgnored{} })
	r.Register(EventPlayerCodeUnknown, func() Event { return &PlayerCodeUnknown{} })
	r.Register(EventPlayerHandlerFailed, func() Event { return &PlayerHandlerFailed{} })

	// Lifecycle
	r.Register(EventPlayerReleased, func() Event { return &PlayerReleased{} })
	r.Register(EventPlayerPlayingChanged, func() Event { return &PlayerPlayingChanged{} })
	r.Register(EventPlayerPlayableChanged, func() Event { return &PlayerPlayableChanged{} })

	return r
}
