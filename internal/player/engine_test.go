package player_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/fijkbridge/internal/events"
	"github.com/vmunix/fijkbridge/internal/player"
)

func TestEngine_Counters(t *testing.T) {
	bus := events.NewBus(nil, testLogger())
	t.Cleanup(func() { _ = bus.Close() })
	playing := bus.Subscribe(events.EventPlayerPlayingChanged, 10)

	e := player.NewEngine(nil, bus, testLogger())
	ctx := context.Background()

	e.PlayingChanged(ctx, 1, 1)
	e.PlayingChanged(ctx, 2, 1)
	e.PlayableChanged(ctx, 1, 1)
	assert.Equal(t, 2, e.Playing())
	assert.Equal(t, 1, e.Playable())

	e.PlayingChanged(ctx, 1, -1)
	assert.Equal(t, 1, e.Playing())

	var last *events.PlayerPlayingChanged
	for i := 0; i < 3; i++ {
		select {
		case ev := <-playing:
			var ok bool
			last, ok = ev.(*events.PlayerPlayingChanged)
			require.True(t, ok)
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for event")
		}
	}
	assert.Equal(t, -1, last.Delta)
	assert.Equal(t, 1, last.Playing)
	assert.Equal(t, int64(1), last.EntityID())
}

func TestEngine_CountersNeverNegative(t *testing.T) {
	e := player.NewEngine(nil, nil, testLogger())
	e.PlayingChanged(context.Background(), 1, -1)
	e.PlayableChanged(context.Background(), 1, -1)
	assert.Equal(t, 0, e.Playing())
	assert.Equal(t, 0, e.Playable())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", player.StateIdle.String())
	assert.Equal(t, "async_preparing", player.StateAsyncPreparing.String())
	assert.Equal(t, "end", player.StateEnd.String())
	assert.Equal(t, "unknown", player.State(42).String())
}

func TestState_Playable(t *testing.T) {
	playable := map[player.State]bool{
		player.StatePrepared:  true,
		player.StateStarted:   true,
		player.StatePaused:    true,
		player.StateCompleted: true,
	}
	for s := player.StateIdle; s <= player.StateEnd; s++ {
		assert.Equal(t, playable[s], s.Playable(), s.String())
	}
}

func TestHostOptions(t *testing.T) {
	o := player.NewHostOptions()
	assert.Equal(t, 3, o.Int("missing", 3))
	assert.False(t, o.Enabled(player.OptRequestAudioFocus))

	o.SetInt(player.OptRequestAudioFocus, 1)
	o.SetInt(player.OptRequestScreenOn, 2)
	o.SetString("title", "x")

	assert.True(t, o.Enabled(player.OptRequestAudioFocus))
	assert.False(t, o.Enabled(player.OptRequestScreenOn))
	assert.Equal(t, "x", o.String("title", ""))
	assert.Equal(t, "d", o.String("other", "d"))
}
