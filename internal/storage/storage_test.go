package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func exercise(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.GetItem(ctx, "time-entries")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetItem(ctx, "time-entries", []byte(`[1,2]`)))
	value, ok, err := s.GetItem(ctx, "time-entries")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[1,2]`, string(value))

	require.NoError(t, s.RemoveItem(ctx, "time-entries"))
	_, ok, err = s.GetItem(ctx, "time-entries")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, s.RemoveItem(ctx, "missing"))
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	buf := []byte("abc")
	require.NoError(t, m.SetItem(ctx, "k", buf))
	buf[0] = 'x'

	value, _, err := m.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(value))
}

func TestFile(t *testing.T) {
	f, err := NewFile(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	exercise(t, f)
}

func TestFileLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, f.SetItem(context.Background(), "time-entries", []byte(`[]`)))

	names, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, names, 1)
	assert.Equal(t, "time-entries.json", names[0].Name())
}

func TestFileWatchSeesExternalWrites(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 16)
	require.NoError(t, f.Watch(ctx, "time-entries", func() { changed <- struct{}{} }))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "time-entries.json"), []byte(`[]`), 0o644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification received")
	}
}
