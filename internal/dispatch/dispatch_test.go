package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/fijkbridge/internal/eventcode"
	"github.com/vmunix/fijkbridge/internal/events"
	"github.com/vmunix/fijkbridge/internal/sink"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *sink.Recorder, *events.Bus) {
	t.Helper()
	bus := events.NewBus(nil, testLogger())
	t.Cleanup(func() { _ = bus.Close() })

	rec := sink.NewRecorder(1)
	d := New(Config{
		PlayerID: 1,
		Sink:     rec,
		Bus:      bus,
		Logger:   testLogger(),
	})
	return d, rec, bus
}

func native(code eventcode.EventCode, arg1, arg2 int) NativeEvent {
	return NativeEvent{What: code.Int(), Arg1: arg1, Arg2: arg2}
}

func receive(t *testing.T, ch <-chan events.Event) events.Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
		return nil
	}
}

func TestDispatch_Payloads(t *testing.T) {
	tests := []struct {
		name string
		in   NativeEvent
		want map[string]any
	}{
		{"prepared", native(eventcode.Prepared, 120000, 0), map[string]any{"event": "prepared", "duration": int64(120000)}},
		{"state", native(eventcode.PlaybackStateChanged, 4, 3), map[string]any{"event": "state_change", "new": 4, "old": 3}},
		{"video rendering", native(eventcode.VideoRenderingStart, 0, 0), map[string]any{"event": "rendering_start", "type": "video"}},
		{"audio rendering", native(eventcode.AudioRenderingStart, 0, 0), map[string]any{"event": "rendering_start", "type": "audio"}},
		{"buffering start", native(eventcode.BufferingStart, 0, 0), map[string]any{"event": "freeze", "value": true}},
		{"buffering end", native(eventcode.BufferingEnd, 0, 0), map[string]any{"event": "freeze", "value": false}},
		{"buffering update", native(eventcode.BufferingUpdate, 5000, 42), map[string]any{"event": "buffering", "head": 5000, "percent": 42}},
		{"position", native(eventcode.CurrentPositionUpdate, 1500, 0), map[string]any{"event": "pos", "pos": 1500}},
		{"seek complete", native(eventcode.SeekComplete, 30000, 0), map[string]any{"event": "seek_complete", "pos": 30000, "err": 0}},
		{"size", native(eventcode.VideoSizeChanged, 1920, 1080), map[string]any{"event": "size_changed", "width": 1920, "height": 1080}},
		{"rotate", native(eventcode.VideoRotationChanged, 90, 0), map[string]any{"event": "rotate", "degree": 90}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, rec, _ := newTestDispatcher(t)

			require.NoError(t, d.Dispatch(context.Background(), tt.in))

			got := rec.Events()
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestDispatch_PreparedUsesDurationSource(t *testing.T) {
	rec := sink.NewRecorder(1)
	d := New(Config{
		PlayerID: 1,
		Sink:     rec,
		Logger:   testLogger(),
		Duration: func() int64 { return 98765 },
	})

	require.NoError(t, d.Dispatch(context.Background(), native(eventcode.Prepared, 0, 0)))

	got := rec.Events()
	require.Len(t, got, 1)
	assert.Equal(t, int64(98765), got[0]["duration"])
}

func TestDispatch_Error(t *testing.T) {
	d, rec, bus := newTestDispatcher(t)
	errs := bus.Subscribe(events.EventPlayerError, 10)

	err := d.Dispatch(context.Background(), NativeEvent{
		What:  eventcode.Error.Int(),
		Arg1:  -10000,
		Arg2:  -1004,
		Extra: "network unreachable",
	})
	require.NoError(t, err)

	msgs := rec.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, sink.KindError, msgs[0].Kind)
	assert.Equal(t, "-10000", msgs[0].Code)
	assert.Equal(t, "network unreachable", msgs[0].Text)
	assert.Equal(t, -1004, msgs[0].Details)

	e, ok := receive(t, errs).(*events.PlayerError)
	require.True(t, ok)
	assert.Equal(t, -10000, e.Code)
	assert.Equal(t, "network unreachable", e.Message)
}

func TestDispatch_ErrorWithoutExtra(t *testing.T) {
	d, rec, _ := newTestDispatcher(t)

	require.NoError(t, d.Dispatch(context.Background(), native(eventcode.Error, 1, 2)))

	msgs := rec.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "1", msgs[0].Code)
	assert.Empty(t, msgs[0].Text)
}

func TestDispatch_UnknownCode(t *testing.T) {
	d, rec, bus := newTestDispatcher(t)
	unknown := bus.Subscribe(events.EventPlayerCodeUnknown, 10)

	err := d.Dispatch(context.Background(), NativeEvent{What: 9999, Arg1: 1, Arg2: 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCode))
	assert.Contains(t, err.Error(), "9999")

	// Nothing reaches the host and no known code is substituted.
	assert.Empty(t, rec.Messages())

	e, ok := receive(t, unknown).(*events.PlayerCodeUnknown)
	require.True(t, ok)
	assert.Equal(t, int64(9999), e.Code)
	assert.Equal(t, 1, e.Arg1)
	assert.Equal(t, int64(1), e.EntityID())

	// The dispatcher keeps working afterwards.
	require.NoError(t, d.Dispatch(context.Background(), native(eventcode.CurrentPositionUpdate, 10, 0)))
	assert.Len(t, rec.Events(), 1)
}

func TestDispatch_KnownButNotForwarded(t *testing.T) {
	d, rec, bus := newTestDispatcher(t)
	ignored := bus.Subscribe(events.EventPlayerCodeIgnored, 10)

	require.NoError(t, d.Dispatch(context.Background(), native(eventcode.FindStreamInfo, 3, 4)))
	assert.Empty(t, rec.Messages())

	e, ok := receive(t, ignored).(*events.PlayerCodeIgnored)
	require.True(t, ok)
	assert.Equal(t, int32(408), e.Code)
	assert.Equal(t, "FIND_STREAM_INFO", e.Name)
}

func TestDispatch_ForwardedHaveHandlers(t *testing.T) {
	d, _, _ := newTestDispatcher(t)
	for _, code := range Forwarded() {
		_, ok := d.handlers[code]
		assert.True(t, ok, "no default handler for %s", code)
	}
	assert.Len(t, d.handlers, len(Forwarded()))
}

func TestDispatch_SizeFollowsRotation(t *testing.T) {
	d, rec, _ := newTestDispatcher(t)
	ctx := context.Background()

	require.NoError(t, d.Dispatch(ctx, native(eventcode.VideoSizeChanged, 1280, 720)))
	require.NoError(t, d.Dispatch(ctx, native(eventcode.VideoRotationChanged, 270, 0)))

	got := rec.Events()
	require.Len(t, got, 3)
	assert.Equal(t, map[string]any{"event": "size_changed", "width": 1280, "height": 720}, got[0])
	assert.Equal(t, map[string]any{"event": "rotate", "degree": 270}, got[1])
	assert.Equal(t, map[string]any{"event": "size_changed", "width": 720, "height": 1280}, got[2])

	w, h := d.VideoSize()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)
	assert.Equal(t, 270, d.Rotation())
}

func TestDispatch_SizeSuppressedForUnknownRotation(t *testing.T) {
	d, rec, _ := newTestDispatcher(t)
	ctx := context.Background()

	require.NoError(t, d.Dispatch(ctx, native(eventcode.VideoRotationChanged, -1, 0)))
	require.NoError(t, d.Dispatch(ctx, native(eventcode.VideoSizeChanged, 640, 480)))

	got := rec.Events()
	require.Len(t, got, 1)
	assert.Equal(t, "rotate", got[0]["event"])

	// The size is still remembered for a later rotation.
	require.NoError(t, d.Dispatch(ctx, native(eventcode.VideoRotationChanged, 180, 0)))
	got = rec.Events()
	require.Len(t, got, 3)
	assert.Equal(t, map[string]any{"event": "size_changed", "width": 640, "height": 480}, got[2])
}

func TestDispatch_RotationWithoutSize(t *testing.T) {
	d, rec, _ := newTestDispatcher(t)

	require.NoError(t, d.Dispatch(context.Background(), native(eventcode.VideoRotationChanged, 90, 0)))
	assert.Len(t, rec.Events(), 1)
}

func TestDispatch_StateObserver(t *testing.T) {
	var calls [][2]int
	rec := sink.NewRecorder(1)
	d := New(Config{
		PlayerID:      1,
		Sink:          rec,
		Logger:        testLogger(),
		OnStateChange: func(_ context.Context, newState, oldState int) { calls = append(calls, [2]int{newState, oldState}) },
	})
	ctx := context.Background()

	require.NoError(t, d.ChangeState(ctx, 1))
	require.NoError(t, d.ChangeState(ctx, 2))
	require.NoError(t, d.Dispatch(ctx, native(eventcode.PlaybackStateChanged, 4, 2)))

	assert.Equal(t, [][2]int{{1, 0}, {2, 1}, {4, 2}}, calls)
	assert.Equal(t, 4, d.State())

	got := rec.Events()
	require.Len(t, got, 3)
	assert.Equal(t, map[string]any{"event": "state_change", "new": 2, "old": 1}, got[1])
}

func TestChangeStateIf(t *testing.T) {
	d, rec, _ := newTestDispatcher(t)
	ctx := context.Background()

	changed, err := d.ChangeStateIf(ctx, 6, 5)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, rec.Events())

	require.NoError(t, d.ChangeState(ctx, 6))
	changed, err = d.ChangeStateIf(ctx, 6, 5)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 5, d.State())
	assert.Equal(t, map[string]any{"event": "state_change", "new": 5, "old": 6}, rec.Events()[1])
}

func TestChangeStateIf_EngineEventWins(t *testing.T) {
	ctx := context.Background()
	for i := 0; i < 200; i++ {
		d := New(Config{PlayerID: 1, Logger: testLogger()})
		require.NoError(t, d.ChangeState(ctx, 6))

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = d.ChangeStateIf(ctx, 6, 5)
		}()
		go func() {
			defer wg.Done()
			_ = d.Dispatch(ctx, native(eventcode.PlaybackStateChanged, 4, 6))
		}()
		wg.Wait()

		// Either order ends started: the conditional pause never lands
		// on top of the engine's change.
		require.Equal(t, 4, d.State(), "iteration %d", i)
	}
}

func TestHandle_Custom(t *testing.T) {
	d, rec, _ := newTestDispatcher(t)

	var seen []NativeEvent
	err := d.Handle(eventcode.TimedText, func(_ context.Context, code eventcode.EventCode, e NativeEvent) error {
		assert.Equal(t, eventcode.TimedText, code)
		seen = append(seen, e)
		return nil
	})
	require.NoError(t, err)

	in := NativeEvent{What: 800, Extra: "subtitle line"}
	require.NoError(t, d.Dispatch(context.Background(), in))
	require.Len(t, seen, 1)
	assert.Equal(t, "subtitle line", seen[0].Extra)
	assert.Empty(t, rec.Messages())
}

func TestHandle_Remove(t *testing.T) {
	d, rec, _ := newTestDispatcher(t)

	require.NoError(t, d.Handle(eventcode.CurrentPositionUpdate, nil))
	require.NoError(t, d.Dispatch(context.Background(), native(eventcode.CurrentPositionUpdate, 5, 0)))
	assert.Empty(t, rec.Messages())
}

func TestHandle_InvalidCode(t *testing.T) {
	d, _, _ := newTestDispatcher(t)

	err := d.Handle(eventcode.EventCode(9999), func(context.Context, eventcode.EventCode, NativeEvent) error { return nil })
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCode))
}

func TestHandle_Failure(t *testing.T) {
	d, _, bus := newTestDispatcher(t)
	failed := bus.Subscribe(events.EventPlayerHandlerFailed, 10)

	require.NoError(t, d.Handle(eventcode.GetImgState, func(context.Context, eventcode.EventCode, NativeEvent) error {
		return errors.New("capture buffer missing")
	}))

	err := d.Dispatch(context.Background(), native(eventcode.GetImgState, 1, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handle GET_IMG_STATE")

	e, ok := receive(t, failed).(*events.PlayerHandlerFailed)
	require.True(t, ok)
	assert.Equal(t, "capture buffer missing", e.Reason)
}

func TestDispatch_NilSinkAndBus(t *testing.T) {
	d := New(Config{PlayerID: 5})
	assert.NoError(t, d.Dispatch(context.Background(), native(eventcode.Prepared, 10, 0)))
	assert.Equal(t, int64(5), d.PlayerID())
}

func TestAccepts(t *testing.T) {
	assert.True(t, Accepts(eventcode.Prepared))
	assert.True(t, Accepts(eventcode.SeekComplete))
	assert.False(t, Accepts(eventcode.Flush))
	assert.False(t, Accepts(eventcode.GetImgState))
	assert.False(t, Accepts(eventcode.EventCode(9999)))
}

func TestNativeEvent_UnmarshalJSON(t *testing.T) {
	var e NativeEvent
	require.NoError(t, json.Unmarshal([]byte(`{"what":402,"arg1":7,"arg2":8,"extra":"x"}`), &e))
	assert.Equal(t, NativeEvent{What: 402, Arg1: 7, Arg2: 8, Extra: "x"}, e)

	require.NoError(t, json.Unmarshal([]byte(`{"what":0}`), &e))
	assert.Equal(t, NativeEvent{What: 0}, e, "an explicit 0 is FLUSH")

	for _, frame := range []string{`{}`, `{"arg1":5}`, `{"what":null,"arg1":5}`} {
		var got NativeEvent
		err := json.Unmarshal([]byte(frame), &got)
		assert.ErrorIs(t, err, ErrMissingCode, frame)
	}

	var bad NativeEvent
	assert.Error(t, json.Unmarshal([]byte(`{"what":"402"}`), &bad))
}
