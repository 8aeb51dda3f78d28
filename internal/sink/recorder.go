package sink

import "sync"

// Recorder keeps every message it receives. It is used by tests and by
// tools that inspect dispatcher output.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	player   int64
}

// NewRecorder creates a Recorder tagging messages with player.
func NewRecorder(player int64) *Recorder {
	return &Recorder{player: player}
}

func (r *Recorder) Success(payload map[string]any) {
	r.add(Message{Player: r.player, Kind: KindEvent, Event: payload})
}

func (r *Recorder) Error(code, message string, details any) {
	r.add(Message{Player: r.player, Kind: KindError, Code: code, Text: message, Details: details})
}

func (r *Recorder) EndOfStream() {
	r.add(Message{Player: r.player, Kind: KindEnd})
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Events returns the payloads of recorded event messages.
func (r *Recorder) Events() []map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []map[string]any
	for _, m := range r.messages {
		if m.Kind == KindEvent {
			out = append(out, m.Event)
		}
	}
	return out
}

// Reset clears recorded messages.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.messages = nil
	r.mu.Unlock()
}

func (r *Recorder) add(m Message) {
	r.mu.Lock()
	r.messages = append(r.messages, m)
	r.mu.Unlock()
}
