package trace

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/fijkbridge/internal/dispatch"
	"github.com/vmunix/fijkbridge/internal/eventcode"
	"github.com/vmunix/fijkbridge/internal/sink"
)

func TestLoad(t *testing.T) {
	tr, err := Load("testdata/startup.yaml")
	require.NoError(t, err)

	assert.Equal(t, int64(1), tr.Player)
	require.Len(t, tr.Events, 7)

	assert.Equal(t, eventcode.PlaybackStateChanged.Int(), tr.Events[0].What.Value)
	assert.Equal(t, eventcode.Prepared.Int(), tr.Events[1].What.Value)
	assert.Equal(t, eventcode.VideoSizeChanged.Int(), tr.Events[2].What.Value)
	assert.Equal(t, 402, tr.Events[3].What.Value)
	assert.Equal(t, eventcode.CurrentPositionUpdate.Int(), tr.Events[4].What.Value)
	assert.Equal(t, 10*time.Millisecond, tr.Events[4].Delay)
	assert.Equal(t, 9999, tr.Events[5].What.Value)
	assert.Equal(t, "network unreachable", tr.Events[6].Extra)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load("testdata/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read trace")
}

func TestParse_UnknownName(t *testing.T) {
	_, err := Parse([]byte("player: 1\nevents:\n  - what: VIDEO_RENDERNG_START\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "VIDEO_RENDERING_START")
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("player: 1\nevents:\n  - what: 402\n    agr1: 3\n"))
	require.Error(t, err)
}

func TestParse_RequiresWhat(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"missing", "player: 1\nevents:\n  - arg1: 5\n", "line 3: event has no what"},
		{"null", "player: 1\nevents:\n  - what: ~\n    arg1: 5\n", "line 3: what is empty"},
		{"empty mapping", "player: 1\nevents:\n  - {}\n", "event has no what"},
		{"second entry", "player: 1\nevents:\n  - what: 402\n  - delay: 1s\n", "line 4: event has no what"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_ExplicitFlush(t *testing.T) {
	tr, err := Parse([]byte("player: 1\nevents:\n  - what: 0\n  - what: FLUSH\n"))
	require.NoError(t, err)
	require.Len(t, tr.Events, 2)
	assert.Equal(t, eventcode.Flush.Int(), tr.Events[0].What.Value)
	assert.Equal(t, eventcode.Flush.Int(), tr.Events[1].What.Value)
}

func TestParse_Empty(t *testing.T) {
	tr, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, tr.Events)
}

func TestWrite_NamesKnownCodes(t *testing.T) {
	tr := &Trace{
		Player: 4,
		Events: []Entry{
			{What: What{Value: 402}},
			{What: What{Value: 12345}, Arg1: 1},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tr))
	assert.Contains(t, buf.String(), "what: VIDEO_RENDERING_START")
	assert.Contains(t, buf.String(), "what: 12345")

	back, err := Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, tr, back)
}

func TestReplay(t *testing.T) {
	tr, err := Load("testdata/startup.yaml")
	require.NoError(t, err)

	rec := sink.NewRecorder(tr.Player)
	d := dispatch.New(dispatch.Config{
		PlayerID: tr.Player,
		Sink:     rec,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	res, err := Replay(context.Background(), tr, d.Dispatch, Options{})
	require.NoError(t, err)

	assert.Equal(t, 6, res.Dispatched)
	assert.Equal(t, 1, res.Unknown)
	assert.Equal(t, 0, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.True(t, errors.Is(res.Errors[0], dispatch.ErrUnknownCode))
	assert.Contains(t, res.Errors[0].Error(), "event 5")

	msgs := rec.Messages()
	require.Len(t, msgs, 6)
	assert.Equal(t, "state_change", msgs[0].Event["event"])
	assert.Equal(t, "prepared", msgs[1].Event["event"])
	assert.Equal(t, "size_changed", msgs[2].Event["event"])
	assert.Equal(t, "rendering_start", msgs[3].Event["event"])
	assert.Equal(t, "pos", msgs[4].Event["event"])
	assert.Equal(t, sink.KindError, msgs[5].Kind)
}

func TestReplay_CountsHandlerFailures(t *testing.T) {
	tr := &Trace{Events: []Entry{{What: What{Value: 402}}, {What: What{Value: 200}}}}
	fail := errors.New("boom")

	res, err := Replay(context.Background(), tr, func(_ context.Context, e dispatch.NativeEvent) error {
		if e.What == 200 {
			return fail
		}
		return nil
	}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Dispatched)
	assert.Equal(t, 1, res.Failed)
	assert.ErrorIs(t, res.Errors[0], fail)
}

func TestReplay_RealTimeStopsOnCancel(t *testing.T) {
	tr := &Trace{Events: []Entry{
		{What: What{Value: 402}},
		{What: What{Value: 402}, Delay: time.Hour},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	fn := func(context.Context, dispatch.NativeEvent) error {
		calls++
		cancel()
		return nil
	}

	res, err := Replay(ctx, tr, fn, Options{RealTime: true})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, res.Dispatched)
}
