// Package dispatch turns raw native player events into host payloads.
//
// The native engine reports events as (what, arg1, arg2, extra). A
// Dispatcher decodes what against the event code table, routes the event to
// the handler registered for that code, and emits the result to a sink and
// to the event bus. Codes outside the table are reported, never guessed.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vmunix/fijkbridge/internal/eventcode"
	"github.com/vmunix/fijkbridge/internal/events"
	"github.com/vmunix/fijkbridge/internal/sink"
)

var (
	// ErrUnknownCode is returned when the native side sends a value that is
	// not in the event code table.
	ErrUnknownCode = errors.New("unknown event code")

	// ErrMissingCode is returned when decoding a native event frame that
	// has no what field. It is never read as code 0.
	ErrMissingCode = errors.New("native event has no what")

	// ErrInvalidCode is returned when registering a handler for a code that
	// is not in the table.
	ErrInvalidCode = errors.New("invalid event code")
)

// NativeEvent is one event as raised by the native engine.
type NativeEvent struct {
	What  int `json:"what"`
	Arg1  int `json:"arg1"`
	Arg2  int `json:"arg2"`
	Extra any `json:"extra,omitempty"`
}

// UnmarshalJSON decodes a producer frame. what is required.
func (e *NativeEvent) UnmarshalJSON(data []byte) error {
	type frame NativeEvent
	var raw struct {
		frame
		What *int `json:"what"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.What == nil {
		return ErrMissingCode
	}
	*e = NativeEvent(raw.frame)
	e.What = *raw.What
	return nil
}

// HandlerFunc handles one decoded event. Handlers run with the dispatcher's
// lock held and must not call back into the same Dispatcher.
type HandlerFunc func(ctx context.Context, code eventcode.EventCode, e NativeEvent) error

// StateObserver is told about every playback state change. It runs with
// the dispatcher's lock held.
type StateObserver func(ctx context.Context, newState, oldState int)

// Config configures a Dispatcher.
type Config struct {
	PlayerID int64
	Sink     sink.Sink
	Bus      *events.Bus // optional
	Logger   *slog.Logger

	// Duration reports the media duration in milliseconds for PREPARED.
	// When nil or non-positive, arg1 of the PREPARED event is used.
	Duration func() int64

	// OnStateChange is called for every PLAYBACK_STATE_CHANGED.
	OnStateChange StateObserver
}

// Dispatcher routes native events for a single player.
type Dispatcher struct {
	mu       sync.Mutex
	playerID int64
	sink     sink.Sink
	bus      *events.Bus
	logger   *slog.Logger
	duration func() int64
	onState  StateObserver
	handlers map[eventcode.EventCode]HandlerFunc

	state  int
	rotate int
	width  int
	height int
}

// New creates a Dispatcher with the default handlers installed.
func New(cfg Config) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := cfg.Sink
	if s == nil {
		s = sink.Discard
	}
	d := &Dispatcher{
		playerID: cfg.PlayerID,
		sink:     s,
		bus:      cfg.Bus,
		logger:   logger.With("player", cfg.PlayerID),
		duration: cfg.Duration,
		onState:  cfg.OnStateChange,
		handlers: make(map[eventcode.EventCode]HandlerFunc),
	}
	d.installDefaults()
	return d
}

// PlayerID returns the id of the player this dispatcher serves.
func (d *Dispatcher) PlayerID() int64 {
	return d.playerID
}

// Handle replaces the handler for code. A nil fn removes the handler, after
// which the code is published as ignored.
func (d *Dispatcher) Handle(code eventcode.EventCode, fn HandlerFunc) error {
	if !code.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidCode, int32(code))
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if fn == nil {
		delete(d.handlers, code)
		return nil
	}
	d.handlers[code] = fn
	return nil
}

// Dispatch decodes and routes one native event.
//
// An unknown code is logged, published as a diagnostic event and returned
// as an error wrapping ErrUnknownCode. It leaves the dispatcher usable.
func (d *Dispatcher) Dispatch(ctx context.Context, e NativeEvent) error {
	code, ok := eventcode.Lookup(e.What)
	if !ok {
		d.logger.Warn("unknown event code from native engine",
			"code", e.What,
			"arg1", e.Arg1,
			"arg2", e.Arg2)
		d.publish(ctx, &events.PlayerCodeUnknown{
			BaseEvent: events.NewPlayerEvent(events.EventPlayerCodeUnknown, d.playerID),
			Code:      int64(e.What),
			Arg1:      e.Arg1,
			Arg2:      e.Arg2,
		})
		return fmt.Errorf("%w: %d", ErrUnknownCode, e.What)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.route(ctx, code, e)
}

// ChangeState emits a PLAYBACK_STATE_CHANGED from the current state to
// newState, as the player does for commands the engine does not report.
func (d *Dispatcher) ChangeState(ctx context.Context, newState int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.route(ctx, eventcode.PlaybackStateChanged, NativeEvent{
		What: eventcode.PlaybackStateChanged.Int(),
		Arg1: newState,
		Arg2: d.state,
	})
}

// ChangeStateIf emits a PLAYBACK_STATE_CHANGED to newState only when the
// current state is from. The check and the change happen under one lock,
// so an engine event cannot slip in between. It reports whether the state
// changed.
func (d *Dispatcher) ChangeStateIf(ctx context.Context, from, newState int) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != from {
		return false, nil
	}
	err := d.route(ctx, eventcode.PlaybackStateChanged, NativeEvent{
		What: eventcode.PlaybackStateChanged.Int(),
		Arg1: newState,
		Arg2: from,
	})
	return true, err
}

// State returns the last playback state seen.
func (d *Dispatcher) State() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// VideoSize returns the last raw video size reported by the engine.
func (d *Dispatcher) VideoSize() (width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.width, d.height
}

// Rotation returns the last reported rotation in degrees.
func (d *Dispatcher) Rotation() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rotate
}

func (d *Dispatcher) route(ctx context.Context, code eventcode.EventCode, e NativeEvent) error {
	h, ok := d.handlers[code]
	if !ok {
		d.logger.Debug("event code has no handler", "code", code.String())
		d.publish(ctx, &events.PlayerCodeIgnored{
			BaseEvent: events.NewPlayerEvent(events.EventPlayerCodeIgnored, d.playerID),
			Code:      int32(code),
			Name:      code.String(),
			Arg1:      e.Arg1,
			Arg2:      e.Arg2,
		})
		return nil
	}

	if err := h(ctx, code, e); err != nil {
		d.logger.Error("event handler failed", "code", code.String(), "error", err)
		d.publish(ctx, &events.PlayerHandlerFailed{
			BaseEvent: events.NewPlayerEvent(events.EventPlayerHandlerFailed, d.playerID),
			Code:      int32(code),
			Name:      code.String(),
			Reason:    err.Error(),
		})
		return fmt.Errorf("handle %s: %w", code, err)
	}
	return nil
}

func (d *Dispatcher) publish(ctx context.Context, e events.Event) {
	if d.bus == nil {
		return
	}
	if err := d.bus.Publish(ctx, e); err != nil {
		d.logger.Error("failed to publish event", "type", e.EventType(), "error", err)
	}
}
