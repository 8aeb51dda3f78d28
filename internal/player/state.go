package player

// State is the playback state of a player. The values are shared with the
// native engine, which reports them in PLAYBACK_STATE_CHANGED events.
type State int

const (
	StateIdle           State = 0
	StateInitialized    State = 1
	StateAsyncPreparing State = 2
	StatePrepared       State = 3
	StateStarted        State = 4
	StatePaused         State = 5
	StateCompleted      State = 6
	StateStopped        State = 7
	StateError          State = 8
	StateEnd            State = 9
)

// String returns a human-readable label for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitialized:
		return "initialized"
	case StateAsyncPreparing:
		return "async_preparing"
	case StatePrepared:
		return "prepared"
	case StateStarted:
		return "started"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	case StateStopped:
		return "stopped"
	case StateError:
		return "error"
	case StateEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Playable reports whether media is loaded and can be played from s.
func (s State) Playable() bool {
	switch s {
	case StatePrepared, StateStarted, StatePaused, StateCompleted:
		return true
	default:
		return false
	}
}
