// internal/config/write_test.go
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDefault_Loads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, WriteDefault(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8585, cfg.Server.Port)
	assert.True(t, cfg.Host.RequestAudioFocus)
	assert.True(t, cfg.Host.ReleaseAudioFocus)
}

func TestConfig_EncodeLoads(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 9090
	cfg.Events.Retention = 0
	cfg.Host.RequestScreenOn = false

	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf))
	assert.Contains(t, buf.String(), "[host]")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Equal(t, time.Duration(0), loaded.Events.Retention)
}
