// Package player manages bridged media players: their commands, their
// playback state and the host-side effects of state changes.
package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vmunix/fijkbridge/internal/dispatch"
	"github.com/vmunix/fijkbridge/internal/events"
	"github.com/vmunix/fijkbridge/internal/sink"
)

var (
	// ErrReleased is returned by commands on a released player.
	ErrReleased = errors.New("player released")

	// ErrInvalidOption is returned for a host option whose value is neither
	// an integer nor a string.
	ErrInvalidOption = errors.New("invalid option value")
)

// Config configures a Player.
type Config struct {
	ID     int64
	Core   Core
	Engine *Engine
	Bus    *events.Bus // optional
	Logger *slog.Logger

	// Options seeds the host-category options.
	Options map[string]int
}

// Player is one bridged media player.
type Player struct {
	id         int64
	core       Core
	engine     *Engine
	bus        *events.Bus
	options    *HostOptions
	queue      *sink.QueuingSink
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger

	mu       sync.Mutex
	released bool
}

// New creates a player in the idle state.
func New(cfg Config) *Player {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	core := cfg.Core
	if core == nil {
		core = NopCore{}
	}
	engine := cfg.Engine
	if engine == nil {
		engine = NewEngine(nil, cfg.Bus, logger)
	}

	p := &Player{
		id:      cfg.ID,
		core:    core,
		engine:  engine,
		bus:     cfg.Bus,
		options: NewHostOptions(),
		queue:   sink.NewQueuingSink(),
		logger:  logger.With("player", cfg.ID),
	}
	for k, v := range cfg.Options {
		p.options.SetInt(k, v)
	}
	p.dispatcher = dispatch.New(dispatch.Config{
		PlayerID:      cfg.ID,
		Sink:          p.queue,
		Bus:           cfg.Bus,
		Logger:        logger,
		Duration:      core.Duration,
		OnStateChange: p.onStateChanged,
	})
	return p
}

// ID returns the player id.
func (p *Player) ID() int64 {
	return p.id
}

// State returns the current playback state.
func (p *Player) State() State {
	return State(p.dispatcher.State())
}

// Dispatcher returns the dispatcher routing this player's native events.
func (p *Player) Dispatcher() *dispatch.Dispatcher {
	return p.dispatcher
}

// Options returns the host-category options.
func (p *Player) Options() *HostOptions {
	return p.options
}

// Listen attaches the host sink. Messages raised before a listener exists
// are delivered on attach.
func (p *Player) Listen(s sink.Sink) {
	p.queue.SetDelegate(s)
}

// Cancel detaches the host sink. Later messages are queued again.
func (p *Player) Cancel() {
	p.queue.SetDelegate(nil)
}

// OnEvent feeds one native event into the player.
func (p *Player) OnEvent(ctx context.Context, e dispatch.NativeEvent) error {
	if p.isReleased() {
		return ErrReleased
	}
	return p.dispatcher.Dispatch(ctx, e)
}

// SetOption sets one option. Category 0 is kept by the bridge; every other
// category goes to the native engine.
func (p *Player) SetOption(category int, key string, value any) error {
	if p.isReleased() {
		return ErrReleased
	}
	if category != HostCategory {
		if err := p.core.SetOption(category, key, value); err != nil {
			return fmt.Errorf("set option %d/%s: %w", category, key, err)
		}
		return nil
	}

	switch v := value.(type) {
	case int:
		p.options.SetInt(key, v)
	case int64:
		p.options.SetInt(key, int(v))
	case float64:
		p.options.SetInt(key, int(v))
	case string:
		p.options.SetString(key, v)
	default:
		return fmt.Errorf("%w: %s=%T", ErrInvalidOption, key, value)
	}
	return nil
}

// ApplyOptions sets options grouped by category. Every option is attempted;
// the errors are joined.
func (p *Player) ApplyOptions(opts map[int]map[string]any) error {
	var errs []error
	for category, kv := range opts {
		for key, value := range kv {
			if err := p.SetOption(category, key, value); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// SetDataSource sets the media url and moves the player to initialized.
func (p *Player) SetDataSource(ctx context.Context, url string) error {
	if p.isReleased() {
		return ErrReleased
	}
	if err := p.core.SetDataSource(url); err != nil {
		return fmt.Errorf("set data source: %w", err)
	}
	return p.dispatcher.ChangeState(ctx, int(StateInitialized))
}

// PrepareAsync starts preparing the data source. The engine reports
// PREPARED when done.
func (p *Player) PrepareAsync(ctx context.Context) error {
	if p.isReleased() {
		return ErrReleased
	}
	if err := p.core.PrepareAsync(); err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	return p.dispatcher.ChangeState(ctx, int(StateAsyncPreparing))
}

// Start starts or resumes playback. The engine reports the state change.
func (p *Player) Start(_ context.Context) error {
	if p.isReleased() {
		return ErrReleased
	}
	if err := p.core.Start(); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	return nil
}

// Pause pauses playback. The engine reports the state change.
func (p *Player) Pause(_ context.Context) error {
	if p.isReleased() {
		return ErrReleased
	}
	if err := p.core.Pause(); err != nil {
		return fmt.Errorf("pause: %w", err)
	}
	return nil
}

// Stop stops playback.
func (p *Player) Stop(ctx context.Context) error {
	if p.isReleased() {
		return ErrReleased
	}
	if err := p.core.Stop(); err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	return p.dispatcher.ChangeState(ctx, int(StateStopped))
}

// Reset returns the player to idle.
func (p *Player) Reset(ctx context.Context) error {
	if p.isReleased() {
		return ErrReleased
	}
	if err := p.core.Reset(); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return p.dispatcher.ChangeState(ctx, int(StateIdle))
}

// SeekTo seeks to msec. Seeking a completed player pauses it first.
func (p *Player) SeekTo(ctx context.Context, msec int64) error {
	if p.isReleased() {
		return ErrReleased
	}
	if _, err := p.dispatcher.ChangeStateIf(ctx, int(StateCompleted), int(StatePaused)); err != nil {
		return err
	}
	if err := p.core.SeekTo(msec); err != nil {
		return fmt.Errorf("seek to %d: %w", msec, err)
	}
	return nil
}

// SetVolume sets the playback volume.
func (p *Player) SetVolume(volume float32) error {
	if p.isReleased() {
		return ErrReleased
	}
	if err := p.core.SetVolume(volume); err != nil {
		return fmt.Errorf("set volume: %w", err)
	}
	return nil
}

// SetSpeed sets the playback speed.
func (p *Player) SetSpeed(speed float32) error {
	if p.isReleased() {
		return ErrReleased
	}
	if err := p.core.SetSpeed(speed); err != nil {
		return fmt.Errorf("set speed: %w", err)
	}
	return nil
}

// CurrentPosition returns the playback position in milliseconds.
func (p *Player) CurrentPosition() (int64, error) {
	if p.isReleased() {
		return 0, ErrReleased
	}
	return p.core.CurrentPosition(), nil
}

// Release moves the player to end, frees the native engine and closes the
// host stream. Releasing twice is a no-op.
func (p *Player) Release(ctx context.Context) error {
	p.mu.Lock()
	if p.released {
		p.mu.Unlock()
		return nil
	}
	p.released = true
	p.mu.Unlock()

	var errs []error
	if err := p.dispatcher.ChangeState(ctx, int(StateEnd)); err != nil {
		errs = append(errs, err)
	}
	if err := p.core.Release(); err != nil {
		errs = append(errs, fmt.Errorf("release core: %w", err))
	}
	p.queue.EndOfStream()

	if p.bus != nil {
		if err := p.bus.Publish(ctx, &events.PlayerReleased{
			BaseEvent: events.NewPlayerEvent(events.EventPlayerReleased, p.id),
		}); err != nil {
			p.logger.Error("failed to publish event", "type", events.EventPlayerReleased, "error", err)
		}
	}
	p.logger.Debug("player released")
	return errors.Join(errs...)
}

func (p *Player) isReleased() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.released
}

// onStateChanged keeps the engine counters and the host in step with the
// player's state.
func (p *Player) onStateChanged(ctx context.Context, newState, oldState int) {
	to, from := State(newState), State(oldState)
	host := p.engine.Host()

	switch {
	case to == StateStarted && from != StateStarted:
		p.engine.PlayingChanged(ctx, p.id, 1)
		if host != nil && p.options.Enabled(OptRequestAudioFocus) {
			host.AudioFocus(true)
		}
		if host != nil && p.options.Enabled(OptRequestScreenOn) {
			host.SetScreenOn(true)
		}
	case to != StateStarted && from == StateStarted:
		p.engine.PlayingChanged(ctx, p.id, -1)
		if host != nil && p.options.Enabled(OptReleaseAudioFocus) {
			host.AudioFocus(false)
		}
		if host != nil && p.options.Enabled(OptRequestScreenOn) {
			host.SetScreenOn(false)
		}
	}

	switch {
	case to.Playable() && !from.Playable():
		p.engine.PlayableChanged(ctx, p.id, 1)
	case !to.Playable() && from.Playable():
		p.engine.PlayableChanged(ctx, p.id, -1)
	}
}
