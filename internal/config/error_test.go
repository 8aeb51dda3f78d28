// internal/config/error_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError_Error_Empty(t *testing.T) {
	e := &ConfigError{Path: "/etc/fijkbridge/config.toml"}
	assert.Empty(t, e.Error())
	assert.False(t, e.HasErrors())
}

func TestConfigError_Error_MissingVars(t *testing.T) {
	e := &ConfigError{
		Path:    "/etc/fijkbridge/config.toml",
		Missing: []string{"DB_PATH", "LOG_LEVEL"},
	}
	got := e.Error()
	assert.Contains(t, got, "missing environment variables")
	assert.Contains(t, got, "DB_PATH")
	assert.Contains(t, got, "LOG_LEVEL")
	assert.True(t, e.HasErrors())
}

func TestConfigError_Error_Both(t *testing.T) {
	e := &ConfigError{
		Path:    "/etc/fijkbridge/config.toml",
		Missing: []string{"DB_PATH"},
		Errors:  []string{"server.port: invalid"},
	}
	got := e.Error()
	assert.Contains(t, got, "missing environment variables")
	assert.Contains(t, got, "validation failed")
	assert.Contains(t, got, "  - server.port: invalid")
}
