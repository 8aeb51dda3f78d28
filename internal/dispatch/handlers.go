package dispatch

import (
	"context"
	"fmt"
	"strconv"

	"github.com/vmunix/fijkbridge/internal/eventcode"
	"github.com/vmunix/fijkbridge/internal/events"
)

// forwarded lists the codes the bridge turns into host payloads. Every other
// known code is accepted and published as ignored.
var forwarded = []eventcode.EventCode{
	eventcode.Prepared,
	eventcode.PlaybackStateChanged,
	eventcode.BufferingStart,
	eventcode.BufferingEnd,
	eventcode.BufferingUpdate,
	eventcode.VideoSizeChanged,
	eventcode.Error,
	eventcode.VideoRenderingStart,
	eventcode.AudioRenderingStart,
	eventcode.CurrentPositionUpdate,
	eventcode.VideoRotationChanged,
	eventcode.SeekComplete,
}

// Forwarded returns the codes that produce host payloads by default.
func Forwarded() []eventcode.EventCode {
	out := make([]eventcode.EventCode, len(forwarded))
	copy(out, forwarded)
	return out
}

func (d *Dispatcher) installDefaults() {
	d.handlers[eventcode.Prepared] = d.handlePrepared
	d.handlers[eventcode.PlaybackStateChanged] = d.handleStateChanged
	d.handlers[eventcode.VideoRenderingStart] = d.handleRenderingStart
	d.handlers[eventcode.AudioRenderingStart] = d.handleRenderingStart
	d.handlers[eventcode.BufferingStart] = d.handleFreeze
	d.handlers[eventcode.BufferingEnd] = d.handleFreeze
	d.handlers[eventcode.BufferingUpdate] = d.handleBuffering
	d.handlers[eventcode.CurrentPositionUpdate] = d.handlePosition
	d.handlers[eventcode.VideoRotationChanged] = d.handleRotation
	d.handlers[eventcode.VideoSizeChanged] = d.handleSizeChanged
	d.handlers[eventcode.SeekComplete] = d.handleSeekComplete
	d.handlers[eventcode.Error] = d.handleError
}

func (d *Dispatcher) handlePrepared(ctx context.Context, _ eventcode.EventCode, e NativeEvent) error {
	var duration int64
	if d.duration != nil {
		duration = d.duration()
	}
	if duration <= 0 {
		duration = int64(e.Arg1)
	}

	d.sink.Success(map[string]any{
		"event":    "prepared",
		"duration": duration,
	})
	d.publish(ctx, &events.PlayerPrepared{
		BaseEvent:  events.NewPlayerEvent(events.EventPlayerPrepared, d.playerID),
		DurationMs: duration,
	})
	return nil
}

func (d *Dispatcher) handleStateChanged(ctx context.Context, _ eventcode.EventCode, e NativeEvent) error {
	d.state = e.Arg1
	if d.onState != nil {
		d.onState(ctx, e.Arg1, e.Arg2)
	}

	d.sink.Success(map[string]any{
		"event": "state_change",
		"new":   e.Arg1,
		"old":   e.Arg2,
	})
	d.publish(ctx, &events.PlayerStateChanged{
		BaseEvent: events.NewPlayerEvent(events.EventPlayerStateChanged, d.playerID),
		NewState:  e.Arg1,
		OldState:  e.Arg2,
	})
	return nil
}

func (d *Dispatcher) handleRenderingStart(ctx context.Context, code eventcode.EventCode, _ NativeEvent) error {
	media := "audio"
	if code == eventcode.VideoRenderingStart {
		media = "video"
	}

	d.sink.Success(map[string]any{
		"event": "rendering_start",
		"type":  media,
	})
	d.publish(ctx, &events.PlayerRenderingStart{
		BaseEvent: events.NewPlayerEvent(events.EventPlayerRenderingStart, d.playerID),
		Media:     media,
	})
	return nil
}

func (d *Dispatcher) handleFreeze(ctx context.Context, code eventcode.EventCode, _ NativeEvent) error {
	frozen := code == eventcode.BufferingStart

	d.sink.Success(map[string]any{
		"event": "freeze",
		"value": frozen,
	})
	d.publish(ctx, &events.PlayerFreeze{
		BaseEvent: events.NewPlayerEvent(events.EventPlayerFreeze, d.playerID),
		Frozen:    frozen,
	})
	return nil
}

func (d *Dispatcher) handleBuffering(ctx context.Context, _ eventcode.EventCode, e NativeEvent) error {
	d.sink.Success(map[string]any{
		"event":   "buffering",
		"head":    e.Arg1,
		"percent": e.Arg2,
	})
	d.publish(ctx, &events.PlayerBuffering{
		BaseEvent: events.NewPlayerEvent(events.EventPlayerBuffering, d.playerID),
		HeadMs:    e.Arg1,
		Percent:   e.Arg2,
	})
	return nil
}

func (d *Dispatcher) handlePosition(ctx context.Context, _ eventcode.EventCode, e NativeEvent) error {
	d.sink.Success(map[string]any{
		"event": "pos",
		"pos":   e.Arg1,
	})
	d.publish(ctx, &events.PlayerPosition{
		BaseEvent:  events.NewPlayerEvent(events.EventPlayerPosition, d.playerID),
		PositionMs: e.Arg1,
	})
	return nil
}

func (d *Dispatcher) handleRotation(ctx context.Context, _ eventcode.EventCode, e NativeEvent) error {
	d.rotate = e.Arg1

	d.sink.Success(map[string]any{
		"event":  "rotate",
		"degree": e.Arg1,
	})
	d.publish(ctx, &events.PlayerRotated{
		BaseEvent: events.NewPlayerEvent(events.EventPlayerRotated, d.playerID),
		Degree:    e.Arg1,
	})

	// The displayed size depends on rotation, so resend it.
	if d.width > 0 && d.height > 0 {
		d.emitSize(ctx, d.width, d.height)
	}
	return nil
}

func (d *Dispatcher) handleSizeChanged(ctx context.Context, _ eventcode.EventCode, e NativeEvent) error {
	d.emitSize(ctx, e.Arg1, e.Arg2)
	return nil
}

// emitSize sends the displayed size for a raw width/height. Nothing is sent
// while the rotation is not a multiple of 90 degrees.
func (d *Dispatcher) emitSize(ctx context.Context, width, height int) {
	d.width = width
	d.height = height

	switch d.rotate {
	case 0, 180:
	case 90, 270:
		width, height = height, width
	default:
		d.logger.Debug("size change suppressed, rotation unknown", "rotate", d.rotate)
		return
	}

	d.sink.Success(map[string]any{
		"event":  "size_changed",
		"width":  width,
		"height": height,
	})
	d.publish(ctx, &events.PlayerSizeChanged{
		BaseEvent: events.NewPlayerEvent(events.EventPlayerSizeChanged, d.playerID),
		Width:     width,
		Height:    height,
	})
}

func (d *Dispatcher) handleSeekComplete(ctx context.Context, _ eventcode.EventCode, e NativeEvent) error {
	d.sink.Success(map[string]any{
		"event": "seek_complete",
		"pos":   e.Arg1,
		"err":   e.Arg2,
	})
	d.publish(ctx, &events.PlayerSeekCompleted{
		BaseEvent:  events.NewPlayerEvent(events.EventPlayerSeekCompleted, d.playerID),
		PositionMs: e.Arg1,
		Err:        e.Arg2,
	})
	return nil
}

func (d *Dispatcher) handleError(ctx context.Context, _ eventcode.EventCode, e NativeEvent) error {
	message := ""
	if e.Extra != nil {
		message = fmt.Sprint(e.Extra)
	}

	d.sink.Error(strconv.Itoa(e.Arg1), message, e.Arg2)
	d.publish(ctx, &events.PlayerError{
		BaseEvent: events.NewPlayerEvent(events.EventPlayerError, d.playerID),
		Code:      e.Arg1,
		Extra:     e.Arg2,
		Message:   message,
	})
	return nil
}

// Accepts reports whether code produces a host payload by default.
func Accepts(code eventcode.EventCode) bool {
	for _, c := range forwarded {
		if c == code {
			return true
		}
	}
	return false
}
