// internal/config/validate.go
package config

import (
	"fmt"
	"time"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Server validation
	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	// Event log validation
	if c.Events.Retention < 0 {
		errs = append(errs, fmt.Sprintf("events.retention: must not be negative, got %s", c.Events.Retention))
	}
	if c.Events.PruneInterval != 0 && c.Events.PruneInterval < time.Second {
		errs = append(errs, fmt.Sprintf("events.prune_interval: must be at least 1s, got %s", c.Events.PruneInterval))
	}
	if c.Events.BufferSize < 0 {
		errs = append(errs, fmt.Sprintf("events.buffer_size: must not be negative, got %d", c.Events.BufferSize))
	}

	// Broadcast validation
	if c.Broadcast.MaxClients < 0 {
		errs = append(errs, fmt.Sprintf("broadcast.max_clients: must not be negative, got %d", c.Broadcast.MaxClients))
	}
	if c.Broadcast.SendBuffer < 0 {
		errs = append(errs, fmt.Sprintf("broadcast.send_buffer: must not be negative, got %d", c.Broadcast.SendBuffer))
	}

	// Host options
	if c.Host.ReleaseAudioFocus && !c.Host.RequestAudioFocus {
		errs = append(errs, "host.release_audio_focus: has no effect unless host.request_audio_focus is enabled")
	}

	return errs
}
