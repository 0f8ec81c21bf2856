package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_DebounceCoalescesRapidWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.md")
	require.NoError(t, os.WriteFile(path, []byte("v0"), 0644))

	var mu sync.Mutex
	var events []Event
	dispatch := func(ev Event) error {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
		return nil
	}

	cfg := DefaultConfig()
	cfg.Dirs = []string{dir}
	cfg.DebounceMS = 50
	w := New(cfg, dispatch)

	ctx := context.Background()
	require.NoError(t, w.Start(ctx))
	defer w.Stop(time.Second)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("v"+string(rune('1'+i))), 0644))
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, len(events), 2, "rapid writes within the debounce window should coalesce")
}

func TestWatcher_IgnoresDisallowedExtensions(t *testing.T) {
	dir := t.TempDir()

	var mu sync.Mutex
	var events []Event
	dispatch := func(ev Event) error {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
		return nil
	}

	cfg := DefaultConfig()
	cfg.Dirs = []string{dir}
	cfg.DebounceMS = 20
	w := New(cfg, dispatch)

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop(time.Second)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.bin"), []byte("x"), 0644))
	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Empty(t, events)
}

func TestWatcher_StartFailsWithNoValidDirs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dirs = []string{"/nonexistent/path/for/sure"}
	w := New(cfg, func(Event) error { return nil })
	err := w.Start(context.Background())
	assert.Error(t, err)
}

func TestWatcher_ReconcileDispatchesNewFilesOnStart(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "existing.md"), []byte("v0"), 0644))

	var mu sync.Mutex
	var events []Event
	dispatch := func(ev Event) error {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
		return nil
	}

	cfg := DefaultConfig()
	cfg.Dirs = []string{dir}
	w := New(cfg, dispatch)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop(time.Second)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 1)
	assert.Equal(t, EventCreated, events[0].Type)
}

func TestWatcher_CheckpointSkipsUnchangedFilesAcrossRestarts(t *testing.T) {
	dir := t.TempDir()
	checkpointPath := filepath.Join(t.TempDir(), "index_state.json")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stable.md"), []byte("unchanged"), 0644))

	var mu sync.Mutex
	var events []Event
	dispatch := func(ev Event) error {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
		return nil
	}

	cfg := DefaultConfig()
	cfg.Dirs = []string{dir}
	cfg.CheckpointPath = checkpointPath
	w1 := New(cfg, dispatch)
	require.NoError(t, w1.Start(context.Background()))
	w1.Stop(time.Second)

	mu.Lock()
	require.Len(t, events, 1, "first start should dispatch the unseen file once")
	events = nil
	mu.Unlock()

	_, err := os.Stat(checkpointPath)
	require.NoError(t, err, "checkpoint file should have been written on Stop")

	w2 := New(cfg, dispatch)
	require.NoError(t, w2.Start(context.Background()))
	defer w2.Stop(time.Second)

	mu.Lock()
	defer mu.Unlock()
	assert.Empty(t, events, "second start should skip the file the checkpoint already knows about")
}
