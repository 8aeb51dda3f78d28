// Package trace reads and replays recorded native event sequences.
//
// A trace is a YAML document:
//
//	player: 1
//	events:
//	  - what: PLAYBACK_STATE_CHANGED
//	    arg1: 3
//	    arg2: 2
//	  - what: 402
//	  - what: current-position-update
//	    arg1: 1500
//	    delay: 500ms
//
// what may be a numeric value or an event code name.
package trace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vmunix/fijkbridge/internal/dispatch"
	"github.com/vmunix/fijkbridge/internal/eventcode"
)

// Trace is a recorded sequence of native events for one player.
type Trace struct {
	Player int64   `yaml:"player"`
	Events []Entry `yaml:"events"`
}

// Entry is one recorded native event.
type Entry struct {
	What  What          `yaml:"what"`
	Arg1  int           `yaml:"arg1,omitempty"`
	Arg2  int           `yaml:"arg2,omitempty"`
	Extra any           `yaml:"extra,omitempty"`
	Delay time.Duration `yaml:"delay,omitempty"`
}

// entryFields are the keys an event entry may carry.
var entryFields = map[string]bool{"what": true, "arg1": true, "arg2": true, "extra": true, "delay": true}

// UnmarshalYAML decodes an event entry. what is required; a missing or
// null what is an error, never code 0.
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: event must be a mapping", node.Line)
	}
	hasWhat := false
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if !entryFields[key.Value] {
			return fmt.Errorf("line %d: field %s not found in event", key.Line, key.Value)
		}
		if key.Value == "what" {
			if val.ShortTag() == "!!null" {
				return fmt.Errorf("line %d: what is empty", val.Line)
			}
			hasWhat = true
		}
	}
	if !hasWhat {
		return fmt.Errorf("line %d: event has no what", node.Line)
	}

	type entry Entry
	return node.Decode((*entry)(e))
}

// Native converts the entry to a native event.
func (e Entry) Native() dispatch.NativeEvent {
	return dispatch.NativeEvent{
		What:  e.What.Value,
		Arg1:  e.Arg1,
		Arg2:  e.Arg2,
		Extra: e.Extra,
	}
}

// What is an event code as written in a trace. Numeric values are kept
// as-is, even when they are not in the table, so traces from newer engines
// still load.
type What struct {
	Value int
}

// UnmarshalYAML accepts an integer or an event code name.
func (w *What) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: what must be a number or a name", node.Line)
	}
	if n, err := strconv.Atoi(node.Value); err == nil {
		w.Value = n
		return nil
	}

	code, ok := eventcode.Parse(node.Value)
	if !ok {
		msg := fmt.Sprintf("line %d: unknown event code name %q", node.Line, node.Value)
		if s := eventcode.Suggest(node.Value); len(s) > 0 {
			msg += " (did you mean " + strings.Join(s, ", ") + "?)"
		}
		return errors.New(msg)
	}
	w.Value = code.Int()
	return nil
}

// MarshalYAML writes known codes by name and anything else as a number.
func (w What) MarshalYAML() (any, error) {
	if code, ok := eventcode.Lookup(w.Value); ok {
		return code.String(), nil
	}
	return w.Value, nil
}

// Parse decodes a trace document.
func Parse(data []byte) (*Trace, error) {
	var t Trace
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return &t, nil
		}
		return nil, fmt.Errorf("parse trace: %w", err)
	}
	return &t, nil
}

// Load reads a trace file.
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Write encodes t as YAML.
func Write(w io.Writer, t *Trace) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode trace: %w", err)
	}
	return enc.Close()
}

// Options controls a replay.
type Options struct {
	// RealTime honours each entry's delay.
	RealTime bool
}

// Result summarizes a replay.
type Result struct {
	Dispatched int
	Unknown    int
	Failed     int
	Errors     []error
}

// Replay feeds every entry of t to fn in order. Unknown codes and handler
// failures are counted and collected; the replay goes on. It stops early
// only when ctx is done.
func Replay(ctx context.Context, t *Trace, fn func(context.Context, dispatch.NativeEvent) error, opts Options) (Result, error) {
	var res Result
	for i, e := range t.Events {
		if opts.RealTime && e.Delay > 0 {
			timer := time.NewTimer(e.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return res, ctx.Err()
			case <-timer.C:
			}
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		err := fn(ctx, e.Native())
		switch {
		case err == nil:
			res.Dispatched++
		case errors.Is(err, dispatch.ErrUnknownCode):
			res.Unknown++
			res.Errors = append(res.Errors, fmt.Errorf("event %d: %w", i, err))
		default:
			res.Failed++
			res.Errors = append(res.Errors, fmt.Errorf("event %d: %w", i, err))
		}
	}
	return res, nil
}
