package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/georoute/internal/config"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("parse yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		err := os.WriteFile(path, []byte(`
endpoint: http://localhost:9000/{ip}
token: secret
zoom: 6
timeout: 30s
`), 0o600)
		require.NoError(t, err)

		cfg, err := config.Load(path)
		require.NoError(t, err)

		assert.Equal(t, "http://localhost:9000/{ip}", cfg.Endpoint)
		assert.Equal(t, "secret", cfg.Token)
		assert.Equal(t, 6, cfg.Zoom)
		require.NotNil(t, cfg.Timeout)
		assert.Equal(t, 30*time.Second, *cfg.Timeout)
	})

	t.Run("explicit zero timeout", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("timeout: 0s\n"), 0o600))

		cfg, err := config.Load(path)
		require.NoError(t, err)
		require.NotNil(t, cfg.Timeout)
		assert.Zero(t, *cfg.Timeout)

		cfg.ApplyDefaults()
		assert.Zero(t, *cfg.Timeout)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("zoom: [1, 2"), 0o600))

		_, err := config.Load(path)
		assert.Error(t, err)
	})
}

func TestLoadOptional(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &config.Config{}, cfg)

	cfg, err = config.LoadOptional("")
	require.NoError(t, err)
	assert.Equal(t, &config.Config{}, cfg)
}

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	negative := -time.Second
	cfg := &config.Config{Zoom: 7, Timeout: &negative}
	cfg.ApplyDefaults()

	assert.Equal(t, config.DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, config.DefaultTileURL, cfg.TileURL)
	assert.Equal(t, "traceroute", cfg.Traceroute)
	assert.Equal(t, 7, cfg.Zoom)
	assert.Zero(t, *cfg.Timeout)

	unset := &config.Config{}
	unset.ApplyDefaults()
	assert.Equal(t, config.DefaultTimeout, *unset.Timeout)
}
