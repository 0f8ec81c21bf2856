package watcher

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadCheckpoint_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "index_state.json")
	want := map[string]time.Time{
		"/docs/a.md": time.Now().Truncate(time.Second),
		"/docs/b.txt": time.Now().Add(-time.Hour).Truncate(time.Second),
	}

	require.NoError(t, saveCheckpoint(path, want))

	got := loadCheckpoint(path)
	require.NotNil(t, got)
	assert.Len(t, got, 2)
	for p, ts := range want {
		assert.True(t, ts.Equal(got[p]), "path %s: want %v got %v", p, ts, got[p])
	}
}

func TestLoadCheckpoint_MissingFileReturnsNil(t *testing.T) {
	assert.Nil(t, loadCheckpoint(filepath.Join(t.TempDir(), "missing.json")))
	assert.Nil(t, loadCheckpoint(""))
}
