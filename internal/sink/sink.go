// Package sink delivers host payloads produced by the dispatcher.
package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Sink receives host-channel messages for one player.
type Sink interface {
	// Success delivers an event payload. The payload always has an "event" key.
	Success(payload map[string]any)
	// Error delivers a player error.
	Error(code, message string, details any)
	// EndOfStream signals that no more messages follow.
	EndOfStream()
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Success(map[string]any)    {}
func (discard) Error(string, string, any) {}
func (discard) EndOfStream()              {}

// Message is one host-channel message in a serializable form.
type Message struct {
	Player  int64          `json:"player"`
	Kind    string         `json:"kind"` // "event", "error" or "end"
	Event   map[string]any `json:"event,omitempty"`
	Code    string         `json:"code,omitempty"`
	Text    string         `json:"message,omitempty"`
	Details any            `json:"details,omitempty"`
}

// Message kinds.
const (
	KindEvent = "event"
	KindError = "error"
	KindEnd   = "end"
)

// WriterSink writes each message as a JSON line.
type WriterSink struct {
	mu     sync.Mutex
	w      io.Writer
	player int64
	err    error
}

// NewWriterSink creates a sink that writes JSON lines for player to w.
func NewWriterSink(w io.Writer, player int64) *WriterSink {
	return &WriterSink{w: w, player: player}
}

func (s *WriterSink) Success(payload map[string]any) {
	s.write(Message{Player: s.player, Kind: KindEvent, Event: payload})
}

func (s *WriterSink) Error(code, message string, details any) {
	s.write(Message{Player: s.player, Kind: KindError, Code: code, Text: message, Details: details})
}

func (s *WriterSink) EndOfStream() {
	s.write(Message{Player: s.player, Kind: KindEnd})
}

// Err returns the first write error, if any.
func (s *WriterSink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *WriterSink) write(m Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return
	}
	data, err := json.Marshal(m)
	if err != nil {
		s.err = fmt.Errorf("marshal message: %w", err)
		return
	}
	if _, err := s.w.Write(append(data, '\n')); err != nil {
		s.err = fmt.Errorf("write message: %w", err)
	}
}
