// internal/events/player.go
package events

// Entity types
const (
	EntityPlayer = "player"
)

// Event type constants
const (
	EventPlayerPrepared        = "player.prepared"
	EventPlayerStateChanged    = "player.state_changed"
	EventPlayerRenderingStart  = "player.rendering_start"
	EventPlayerFreeze          = "player.freeze"
	EventPlayerBuffering       = "player.buffering"
	EventPlayerPosition        = "player.position"
	EventPlayerRotated         = "player.rotated"
	EventPlayerSizeChanged     = "player.size_changed"
	EventPlayerSeekCompleted   = "player.seek_completed"
	EventPlayerError           = "player.error"
	EventPlayerCodeIgnored     = "player.code_ignored"
	EventPlayerCodeUnknown     = "player.code_unknown"
	EventPlayerHandlerFailed   = "player.handler_failed"
	EventPlayerReleased        = "player.released"
	EventPlayerPlayingChanged  = "player.playing_changed"
	EventPlayerPlayableChanged = "player.playable_changed"
)

// PlayerPrepared is emitted when the engine finishes preparing a source.
type PlayerPrepared struct {
	BaseEvent
	DurationMs int64 `json:"duration_ms"`
}

// PlayerStateChanged is emitted on every PLAYBACK_STATE_CHANGED.
type PlayerStateChanged struct {
	BaseEvent
	NewState int `json:"new_state"`
	OldState int `json:"old_state"`
}

// PlayerRenderingStart is emitted when the first video or audio frame is rendered.
type PlayerRenderingStart struct {
	BaseEvent
	Media string `json:"media"` // "video" or "audio"
}

// PlayerFreeze is emitted when buffering starts (Frozen=true) or ends.
type PlayerFreeze struct {
	BaseEvent
	Frozen bool `json:"frozen"`
}

// PlayerBuffering carries buffered head position and percentage.
type PlayerBuffering struct {
	BaseEvent
	HeadMs  int `json:"head_ms"`
	Percent int `json:"percent"`
}

// PlayerPosition carries the current playback position.
type PlayerPosition struct {
	BaseEvent
	PositionMs int `json:"position_ms"`
}

// PlayerRotated is emitted when the video rotation changes.
type PlayerRotated struct {
	BaseEvent
	Degree int `json:"degree"`
}

// PlayerSizeChanged carries the displayed video size, already adjusted for rotation.
type PlayerSizeChanged struct {
	BaseEvent
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PlayerSeekCompleted is emitted when a seek lands.
type PlayerSeekCompleted struct {
	BaseEvent
	PositionMs int `json:"position_ms"`
	Err        int `json:"err"`
}

// PlayerError is emitted when the engine reports ERROR.
type PlayerError struct {
	BaseEvent
	Code    int    `json:"code"`
	Extra   int    `json:"extra"`
	Message string `json:"message"`
}

// PlayerCodeIgnored is emitted for known codes that have no host payload.
type PlayerCodeIgnored struct {
	BaseEvent
	Code int32  `json:"code"`
	Name string `json:"name"`
	Arg1 int    `json:"arg1"`
	Arg2 int    `json:"arg2"`
}

// PlayerCodeUnknown is emitted when the engine sends a value outside the
// event code table. This usually means producer and consumer are built
// against different versions of the table.
type PlayerCodeUnknown struct {
	BaseEvent
	Code int64 `json:"code"`
	Arg1 int   `json:"arg1"`
	Arg2 int   `json:"arg2"`
}

// PlayerHandlerFailed is emitted when a registered handler returns an error.
type PlayerHandlerFailed struct {
	BaseEvent
	Code   int32  `json:"code"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// PlayerReleased is emitted after a player released its native resources.
type PlayerReleased struct {
	BaseEvent
}

// PlayerPlayingChanged is emitted when the engine-wide count of playing players changes.
type PlayerPlayingChanged struct {
	BaseEvent
	Delta   int `json:"delta"`
	Playing int `json:"playing"`
}

// PlayerPlayableChanged is emitted when the engine-wide count of playable players changes.
type PlayerPlayableChanged struct {
	BaseEvent
	Delta    int `json:"delta"`
	Playable int `json:"playable"`
}
