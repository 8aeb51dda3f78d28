package player

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vmunix/fijkbridge/internal/events"
)

// Host is the process hosting the players. The engine asks it for audio
// focus and for keeping the screen on.
type Host interface {
	AudioFocus(request bool)
	SetScreenOn(on bool)
}

// LogHost is a Host that only logs what it is asked to do.
type LogHost struct {
	Logger *slog.Logger
}

func (h LogHost) AudioFocus(request bool) {
	h.logger().Info("host audio focus", "request", request)
}

func (h LogHost) SetScreenOn(on bool) {
	h.logger().Info("host screen on", "on", on)
}

func (h LogHost) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

// Engine tracks state shared by all players: how many are playing and how
// many have media loaded.
type Engine struct {
	mu       sync.Mutex
	playing  int
	playable int
	host     Host
	bus      *events.Bus
	logger   *slog.Logger
}

// NewEngine creates an engine. host and bus may be nil.
func NewEngine(host Host, bus *events.Bus, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{host: host, bus: bus, logger: logger}
}

// Host returns the host, or nil.
func (e *Engine) Host() Host {
	return e.host
}

// Playing returns the number of players currently started.
func (e *Engine) Playing() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// Playable returns the number of players with media loaded.
func (e *Engine) Playable() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playable
}

// PlayingChanged adjusts the playing count by delta on behalf of player.
func (e *Engine) PlayingChanged(ctx context.Context, player int64, delta int) {
	e.mu.Lock()
	e.playing += delta
	if e.playing < 0 {
		e.logger.Warn("playing count below zero", "player", player, "delta", delta)
		e.playing = 0
	}
	count := e.playing
	e.mu.Unlock()

	e.publish(ctx, &events.PlayerPlayingChanged{
		BaseEvent: events.NewPlayerEvent(events.EventPlayerPlayingChanged, player),
		Delta:     delta,
		Playing:   count,
	})
}

// PlayableChanged adjusts the playable count by delta on behalf of player.
func (e *Engine) PlayableChanged(ctx context.Context, player int64, delta int) {
	e.mu.Lock()
	e.playable += delta
	if e.playable < 0 {
		e.logger.Warn("playable count below zero", "player", player, "delta", delta)
		e.playable = 0
	}
	count := e.playable
	e.mu.Unlock()

	e.publish(ctx, &events.PlayerPlayableChanged{
		BaseEvent: events.NewPlayerEvent(events.EventPlayerPlayableChanged, player),
		Delta:     delta,
		Playable:  count,
	})
}

func (e *Engine) publish(ctx context.Context, ev events.Event) {
	if e.bus == nil {
		return
	}
	if err := e.bus.Publish(ctx, ev); err != nil {
		e.logger.Error("failed to publish event", "type", ev.EventType(), "error", err)
	}
}
