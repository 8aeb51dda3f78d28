// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Events    EventsConfig    `toml:"events"`
	Host      HostConfig      `toml:"host"`
	Broadcast BroadcastConfig `toml:"broadcast"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// EventsConfig controls the event bus and its SQLite log.
type EventsConfig struct {
	MemoryOnly    bool          `toml:"memory_only"` // skip the SQLite event log
	Retention     time.Duration `toml:"retention"`
	PruneInterval time.Duration `toml:"prune_interval"`
	BufferSize    int           `toml:"buffer_size"`
}

// HostConfig holds the default host options applied to every new player.
// Keys match the host option names the player understands.
type HostConfig struct {
	RequestAudioFocus bool `toml:"request_audio_focus"`
	ReleaseAudioFocus bool `toml:"release_audio_focus"`
	RequestScreenOn   bool `toml:"request_screen_on"`
}

// BroadcastConfig controls the WebSocket host channel.
type BroadcastConfig struct {
	MaxClients int `toml:"max_clients"`
	SendBuffer int `toml:"send_buffer"`
}

// Load reads, parses and validates the configuration file.
// Unresolved environment variables and validation failures are returned
// together as a *ConfigError.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	// Keys the file leaves out keep their defaults, so an explicit zero
	// or false in the file is honoured.
	cfg := Default()
	if _, err := toml.Decode(content, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()

	cfgErr := &ConfigError{
		Path:    path,
		Missing: missing,
		Errors:  cfg.Validate(),
	}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}

	return cfg, nil
}

// Default returns the configuration used when no file exists. It matches
// the file written by WriteDefault.
func Default() *Config {
	cfg := &Config{
		Events: EventsConfig{
			Retention: 7 * 24 * time.Hour,
		},
		Host: HostConfig{
			RequestAudioFocus: true,
			ReleaseAudioFocus: true,
			RequestScreenOn:   true,
		},
	}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills settings that have no meaningful zero value.
// Retention is not among them: 0 keeps events forever.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8585
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/fijkbridge.db"
	}
	if c.Events.PruneInterval == 0 {
		c.Events.PruneInterval = time.Hour
	}
	if c.Events.BufferSize == 0 {
		c.Events.BufferSize = 100
	}
	if c.Broadcast.MaxClients == 0 {
		c.Broadcast.MaxClients = 16
	}
	if c.Broadcast.SendBuffer == 0 {
		c.Broadcast.SendBuffer = 64
	}
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// envVarPattern matches ${VAR} and ${VAR:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// substituteEnvVars replaces ${VAR} with environment variable values.
// ${VAR:-default} uses default when VAR is unset or empty. Variables without
// a value or default are left untouched and returned in missing.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	seen := make(map[string]bool)

	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		name := groups[1]
		hasDefault := len(match) > len(name)+3 // longer than ${NAME}

		value, ok := os.LookupEnv(name)
		if ok && value != "" {
			return value
		}
		if hasDefault {
			return groups[2]
		}
		if ok {
			return value
		}
		if !seen[name] {
			seen[name] = true
			missing = append(missing, name)
		}
		return match
	})

	return out, missing
}
