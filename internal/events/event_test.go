package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBaseEvent_ImplementsEvent(t *testing.T) {
	now := time.Now()
	e := BaseEvent{
		Type:      "test.event",
		Entity:    "player",
		ID:        42,
		Timestamp: now,
	}

	assert.Equal(t, "test.event", e.EventType())
	assert.Equal(t, "player", e.EntityType())
	assert.Equal(t, int64(42), e.EntityID())
	assert.Equal(t, now, e.OccurredAt())
}

func TestNewBaseEvent(t *testing.T) {
	e := NewBaseEvent("player.prepared", "player", 123)

	assert.Equal(t, "player.prepared", e.EventType())
	assert.Equal(t, "player", e.EntityType())
	assert.Equal(t, int64(123), e.EntityID())
	assert.False(t, e.OccurredAt().IsZero())
}

func TestNewPlayerEvent(t *testing.T) {
	e := NewPlayerEvent(EventPlayerSeekCompleted, 7)

	assert.Equal(t, EventPlayerSeekCompleted, e.EventType())
	assert.Equal(t, EntityPlayer, e.EntityType())
	assert.Equal(t, int64(7), e.EntityID())
}
