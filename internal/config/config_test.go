package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("VOXEL_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "layers", cfg.World.Generator)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Len(t, cfg.World.Layers, 6)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := []byte(`
world:
  generator: noise
  seed: 42
  noise: simplex
storage:
  backend: badger
  path: /tmp/voxel
  autoload: true
server:
  rest_port: 9090
telemetry:
  enabled: true
events:
  backend: jetstream
  retention: 90m
`)
	require.NoError(t, os.WriteFile(path, data, 0644))
	t.Setenv("VOXEL_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "noise", cfg.World.Generator)
	assert.Equal(t, int64(42), cfg.World.Seed)
	assert.Equal(t, "simplex", cfg.World.Noise)
	assert.Equal(t, "badger", cfg.Storage.Backend)
	assert.True(t, cfg.Storage.AutoLoad)
	assert.Equal(t, 9090, cfg.Server.GetRESTPort())
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "voxel-world", cfg.Telemetry.ServiceName, "Незаданные поля сохраняют значения по умолчанию")
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "jetstream", cfg.Events.Backend)
	assert.Equal(t, 90*time.Minute, cfg.Events.Retention)
	assert.Equal(t, "WORLD", cfg.Events.Stream)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("world: [1, 2"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestRESTPortFallback(t *testing.T) {
	var s ServerConfig

	t.Setenv("VOXEL_REST_PORT", "")
	assert.Equal(t, 8088, s.GetRESTPort())

	t.Setenv("VOXEL_REST_PORT", "7070")
	assert.Equal(t, 7070, s.GetRESTPort())

	t.Setenv("VOXEL_REST_PORT", "abc")
	assert.Equal(t, 8088, s.GetRESTPort())
}
