package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "time-entries", cfg.Storage.Key)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 1000, cfg.Export.ChunkSize)
	assert.Equal(t, 10*time.Minute, cfg.Export.JobTTL)
	assert.Equal(t, 8*time.Second, cfg.Store.UndoWindow)
	assert.Equal(t, DefaultProjects, cfg.Projects)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: test
log:
  level: debug
  format: json
storage:
  driver: memory
export:
  chunk_size: 250
  max_rows: 5000
projects:
  - id: ops
    name: Operations
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 250, cfg.Export.ChunkSize)
	assert.Equal(t, 5000, cfg.Export.MaxRows)
	require.Len(t, cfg.Projects, 1)
	assert.Equal(t, "Operations", cfg.Projects[0].Name)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("EXPORT_CHUNK_SIZE", "50")
	t.Setenv("STORAGE_DRIVER", "file")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Export.ChunkSize)
	assert.Equal(t, "file", cfg.Storage.Driver)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"driver":     "STORAGE_DRIVER=postgres",
		"chunk size": "EXPORT_CHUNK_SIZE=0",
		"port":       "SERVER_PORT=70000",
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			k, v, _ := strings.Cut(kv, "=")
			t.Setenv(k, v)
			_, err := LoadConfig("")
			assert.Error(t, err)
		})
	}
}

func TestHelpListsVariables(t *testing.T) {
	help, err := Help()
	require.NoError(t, err)
	assert.Contains(t, help, "EXPORT_CHUNK_SIZE")
}
