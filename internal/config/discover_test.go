package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	assert.Equal(t, "/custom/config/fijkbridge/config.toml", DefaultPath())
}

func TestSearchPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	assert.Equal(t, []string{
		"./config.toml",
		"/xdg/fijkbridge/config.toml",
		"/etc/fijkbridge/config.toml",
	}, SearchPaths())
}

func TestDiscover_EnvVar(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[server]"), 0644))
	t.Setenv(EnvConfig, cfgPath)

	path, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, cfgPath, path)
}

func TestDiscover_EnvVarMissingFile(t *testing.T) {
	t.Setenv(EnvConfig, "/nonexistent/config.toml")

	_, err := Discover()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvConfig)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestDiscover_CurrentDir(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "config.toml"), []byte("[server]"), 0644))
	t.Chdir(tmp)

	path, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, "./config.toml", path)
}

func TestDiscover_XDG(t *testing.T) {
	t.Setenv(EnvConfig, "")
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Chdir(t.TempDir())

	want := filepath.Join(xdg, "fijkbridge", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(want), 0755))
	require.NoError(t, os.WriteFile(want, []byte("[server]"), 0644))

	path, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, want, path)
}

func TestDiscover_NotFound(t *testing.T) {
	if _, err := os.Stat("/etc/fijkbridge/config.toml"); err == nil {
		t.Skip("system config present")
	}
	t.Setenv(EnvConfig, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	_, err := Discover()
	assert.ErrorIs(t, err, ErrNotFound)
}
