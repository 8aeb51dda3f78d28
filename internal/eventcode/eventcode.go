// Package eventcode defines the numeric event codes raised by the native
// playback engine.
//
// The values are a wire contract: producer and consumer exchange plain
// integers, so every value here is assigned explicitly and must never change.
// New codes may be appended; existing ones are never renumbered or reused.
package eventcode

import "fmt"

// EventCode identifies one kind of player event.
type EventCode int32

// Event codes, grouped by hundreds. Each value is fixed on the wire.
const (
	Flush EventCode = 0

	Error EventCode = 100

	Prepared  EventCode = 200
	Completed EventCode = 300

	VideoSizeChanged        EventCode = 400
	SARChanged              EventCode = 401
	VideoRenderingStart     EventCode = 402
	AudioRenderingStart     EventCode = 403
	VideoRotationChanged    EventCode = 404
	AudioDecodedStart       EventCode = 405
	VideoDecodedStart       EventCode = 406
	OpenInput               EventCode = 407
	FindStreamInfo          EventCode = 408
	ComponentOpen           EventCode = 409
	VideoSeekRenderingStart EventCode = 410
	AudioSeekRenderingStart EventCode = 411

	BufferingStart        EventCode = 500
	BufferingEnd          EventCode = 501
	BufferingUpdate       EventCode = 502
	BufferingBytesUpdate  EventCode = 503
	BufferingTimeUpdate   EventCode = 504
	CurrentPositionUpdate EventCode = 510

	SeekComplete EventCode = 600

	PlaybackStateChanged EventCode = 700

	TimedText EventCode = 800

	AccurateSeekComplete EventCode = 900

	GetImgState EventCode = 1000
)

// names is the single source of truth for the table. Keep it sorted by value.
var names = map[EventCode]string{
	Flush:                   "FLUSH",
	Error:                   "ERROR",
	Prepared:                "PREPARED",
	Completed:               "COMPLETED",
	VideoSizeChanged:        "VIDEO_SIZE_CHANGED",
	SARChanged:              "SAR_CHANGED",
	VideoRenderingStart:     "VIDEO_RENDERING_START",
	AudioRenderingStart:     "AUDIO_RENDERING_START",
	VideoRotationChanged:    "VIDEO_ROTATION_CHANGED",
	AudioDecodedStart:       "AUDIO_DECODED_START",
	VideoDecodedStart:       "VIDEO_DECODED_START",
	OpenInput:               "OPEN_INPUT",
	FindStreamInfo:          "FIND_STREAM_INFO",
	ComponentOpen:           "COMPONENT_OPEN",
	VideoSeekRenderingStart: "VIDEO_SEEK_RENDERING_START",
	AudioSeekRenderingStart: "AUDIO_SEEK_RENDERING_START",
	BufferingStart:          "BUFFERING_START",
	BufferingEnd:            "BUFFERING_END",
	BufferingUpdate:         "BUFFERING_UPDATE",
	BufferingBytesUpdate:    "BUFFERING_BYTES_UPDATE",
	BufferingTimeUpdate:     "BUFFERING_TIME_UPDATE",
	CurrentPositionUpdate:   "CURRENT_POSITION_UPDATE",
	SeekComplete:            "SEEK_COMPLETE",
	PlaybackStateChanged:    "PLAYBACK_STATE_CHANGED",
	TimedText:               "TIMED_TEXT",
	AccurateSeekComplete:    "ACCURATE_SEEK_COMPLETE",
	GetImgState:             "GET_IMG_STATE",
}

// byName is the reverse of names, built once at init.
var byName = func() map[string]EventCode {
	m := make(map[string]EventCode, len(names))
	for code, name := range names {
		m[name] = code
	}
	return m
}()

// Lookup resolves a raw integer received from the native side.
// It reports false for any value that is not in the table; the returned
// code is meaningless in that case and must not be used.
func Lookup(raw int) (EventCode, bool) {
	if raw < -1<<31 || raw > 1<<31-1 {
		return 0, false
	}
	code := EventCode(raw)
	if _, ok := names[code]; !ok {
		return 0, false
	}
	return code, true
}

// Valid reports whether c is a published event code.
func (c EventCode) Valid() bool {
	_, ok := names[c]
	return ok
}

// String returns the symbolic name, e.g. "VIDEO_RENDERING_START".
func (c EventCode) String() string {
	if name, ok := names[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int32(c))
}

// Int returns the wire value.
func (c EventCode) Int() int {
	return int(c)
}
