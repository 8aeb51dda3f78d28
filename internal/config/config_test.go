package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	err := os.WriteFile(cfgPath, []byte(content), 0644)
	require.NoError(t, err, "failed to write test config")
	return cfgPath
}

func TestLoad_Valid(t *testing.T) {
	cfgPath := writeConfig(t, `
[server]
port = 8080
log_level = "debug"

[events]
retention = "24h"
prune_interval = "10m"

[host]
request_audio_focus = true
release_audio_focus = false
request_screen_on = true
`)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.Events.Retention)
	assert.Equal(t, 10*time.Minute, cfg.Events.PruneInterval)
	assert.True(t, cfg.Host.RequestAudioFocus)
	assert.False(t, cfg.Host.ReleaseAudioFocus)
	assert.True(t, cfg.Host.RequestScreenOn)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfgPath := writeConfig(t, "")

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8585, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "./data/fijkbridge.db", cfg.Database.Path)
	assert.Equal(t, 7*24*time.Hour, cfg.Events.Retention)
	assert.Equal(t, time.Hour, cfg.Events.PruneInterval)
	assert.Equal(t, 100, cfg.Events.BufferSize)
	assert.False(t, cfg.Events.MemoryOnly)
	assert.Equal(t, 16, cfg.Broadcast.MaxClients)
	assert.Equal(t, 64, cfg.Broadcast.SendBuffer)
	assert.True(t, cfg.Host.RequestAudioFocus)
	assert.True(t, cfg.Host.ReleaseAudioFocus)
	assert.True(t, cfg.Host.RequestScreenOn)
	assert.Equal(t, "127.0.0.1:8585", cfg.Addr())
}

func TestLoad_DefaultFileMatchesDefault(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, WriteDefault(cfgPath))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ExplicitZeroes(t *testing.T) {
	cfgPath := writeConfig(t, `
[events]
retention = "0s"

[host]
request_audio_focus = false
release_audio_focus = false
request_screen_on = false
`)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Zero(t, cfg.Events.Retention, "0 keeps events forever")
	assert.Equal(t, HostConfig{}, cfg.Host)
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("FIJK_TEST_DB_PATH", "/var/lib/fijk/events.db")

	cfgPath := writeConfig(t, `
[database]
path = "${FIJK_TEST_DB_PATH}"

[server]
log_level = "${FIJK_TEST_UNSET_LEVEL:-warn}"
`)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/fijk/events.db", cfg.Database.Path)
	assert.Equal(t, "warn", cfg.Server.LogLevel)
}

func TestLoad_MissingEnvVar(t *testing.T) {
	cfgPath := writeConfig(t, `
[database]
path = "${FIJK_TEST_NONEXISTENT_VAR_12345}"
`)

	_, err := Load(cfgPath)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{"FIJK_TEST_NONEXISTENT_VAR_12345"}, cfgErr.Missing)
	assert.Contains(t, err.Error(), "FIJK_TEST_NONEXISTENT_VAR_12345")
}

func TestLoad_ValidationError(t *testing.T) {
	cfgPath := writeConfig(t, `
[server]
port = 99999
`)

	_, err := Load(cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestLoad_InvalidTOML(t *testing.T) {
	cfgPath := writeConfig(t, "[server\nport = ")

	_, err := Load(cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("FIJK_TEST_SIMPLE", "hello")
	t.Setenv("FIJK_TEST_EMPTY", "")

	tests := []struct {
		name    string
		in      string
		want    string
		missing []string
	}{
		{"simple", "value = ${FIJK_TEST_SIMPLE}", "value = hello", nil},
		{"default unused", "value = ${FIJK_TEST_SIMPLE:-other}", "value = hello", nil},
		{"default for empty", "value = ${FIJK_TEST_EMPTY:-fallback}", "value = fallback", nil},
		{"empty default", "value = '${FIJK_TEST_UNSET_A:-}'", "value = ''", nil},
		{"missing", "value = ${FIJK_TEST_UNSET_B}", "value = ${FIJK_TEST_UNSET_B}", []string{"FIJK_TEST_UNSET_B"}},
		{"missing reported once", "${FIJK_TEST_UNSET_C} ${FIJK_TEST_UNSET_C}", "${FIJK_TEST_UNSET_C} ${FIJK_TEST_UNSET_C}", []string{"FIJK_TEST_UNSET_C"}},
		{"no vars", "port = 8080", "port = 8080", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, missing := substituteEnvVars(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.missing, missing)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Validate())
	assert.Equal(t, 8585, cfg.Server.Port)
}
