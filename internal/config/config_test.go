package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/map-editor/internal/config"
)

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := config.LoadFromFile(writeEnv(t, "API_PORT=9090\n"))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:9090", cfg.GetServerAddr())
	assert.Equal(t, "localhost:6379", cfg.GetRedisAddr())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "http://localhost:3000,http://localhost:5173", cfg.Server.CORSOrigins)

	assert.Equal(t, 15.0, cfg.Editor.MinEditZoom)
	assert.Equal(t, 5.0, cfg.Editor.SnapDistancePx)
	assert.Equal(t, 0.0025, cfg.Editor.VertexPriorityKm)
	assert.Equal(t, 2, cfg.Editor.MinVertexSeparation)
	assert.Equal(t, 2.0, cfg.Editor.MinZoom)
	assert.Equal(t, 16.0, cfg.Editor.InitialZoom)

	assert.False(t, cfg.Events.StreamEnabled)
	assert.Equal(t, "stream:editor:events", cfg.Events.StreamName)
	assert.Equal(t, "editor-audit", cfg.Events.ConsumerGroup)
	assert.Equal(t, 256, cfg.Events.BufferSize)
	assert.Equal(t, 2*time.Second, cfg.Events.PublishTimeout)
	assert.Empty(t, cfg.Catalog.Path)

	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, time.Minute, cfg.Session.ReapInterval)
	assert.Equal(t, 1000, cfg.Session.MaxSessions)
}

func TestLoadFromFile_Overrides(t *testing.T) {
	cfg, err := config.LoadFromFile(writeEnv(t, `LOG_LEVEL=debug
EVENTS_STREAM_ENABLED=true
EVENTS_BUFFER_SIZE=16
EDITOR_MIN_EDIT_ZOOM=12
EDITOR_SNAP_DISTANCE_PX=8
CATALOG_PATH=/etc/editor/catalog.yaml
SESSION_TTL=5m
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Events.StreamEnabled)
	assert.Equal(t, 16, cfg.Events.BufferSize)
	assert.Equal(t, 12.0, cfg.Editor.MinEditZoom)
	assert.Equal(t, 8.0, cfg.Editor.SnapDistancePx)
	assert.Equal(t, "/etc/editor/catalog.yaml", cfg.Catalog.Path)
	assert.Equal(t, 5*time.Minute, cfg.Session.TTL)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero snap distance", "EDITOR_SNAP_DISTANCE_PX=0\n"},
		{"edit zoom out of range", "EDITOR_MIN_EDIT_ZOOM=30\n"},
		{"unknown log level", "LOG_LEVEL=verbose\n"},
		{"empty buffer", "EVENTS_BUFFER_SIZE=0\n"},
		{"zero session ttl", "SESSION_TTL=0s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadFromFile(writeEnv(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := config.LoadFromFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
