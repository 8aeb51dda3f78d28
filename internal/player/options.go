package player

import "sync"

// HostCategory is the option category handled by the bridge itself rather
// than forwarded to the native engine.
const HostCategory = 0

// Host option keys.
const (
	OptRequestAudioFocus = "request-audio-focus"
	OptReleaseAudioFocus = "release-audio-focus"
	OptRequestScreenOn   = "request-screen-on"
)

// HostOptions holds the host-category options of one player.
type HostOptions struct {
	mu   sync.RWMutex
	ints map[string]int
	strs map[string]string
}

// NewHostOptions creates an empty option set.
func NewHostOptions() *HostOptions {
	return &HostOptions{
		ints: make(map[string]int),
		strs: make(map[string]string),
	}
}

// SetInt stores an integer option.
func (o *HostOptions) SetInt(key string, value int) {
	o.mu.Lock()
	o.ints[key] = value
	o.mu.Unlock()
}

// SetString stores a string option.
func (o *HostOptions) SetString(key, value string) {
	o.mu.Lock()
	o.strs[key] = value
	o.mu.Unlock()
}

// Int returns an integer option or def if unset.
func (o *HostOptions) Int(key string, def int) int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if v, ok := o.ints[key]; ok {
		return v
	}
	return def
}

// String returns a string option or def if unset.
func (o *HostOptions) String(key, def string) string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if v, ok := o.strs[key]; ok {
		return v
	}
	return def
}

// Enabled reports whether an integer option is set to 1.
func (o *HostOptions) Enabled(key string) bool {
	return o.Int(key, 0) == 1
}
