package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvConfig names the environment variable that points at a config file.
const EnvConfig = "FIJK_CONFIG"

// ErrNotFound is returned by Discover when no search path holds a config.
var ErrNotFound = errors.New("config not found")

// DefaultPath returns the per-user config path, under $XDG_CONFIG_HOME
// on Linux.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "./config.toml"
	}
	return filepath.Join(dir, "fijkbridge", "config.toml")
}

// SearchPaths lists where Discover looks, in order, after $FIJK_CONFIG.
func SearchPaths() []string {
	return []string{
		"./config.toml",
		DefaultPath(),
		"/etc/fijkbridge/config.toml",
	}
}

// Discover finds the config file. $FIJK_CONFIG wins and must exist;
// otherwise the first existing entry of SearchPaths is used.
func Discover() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfig, p, err)
		}
		return p, nil
	}

	paths := SearchPaths()
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w, checked: %s", ErrNotFound, strings.Join(paths, ", "))
}
