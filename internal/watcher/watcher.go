// Package watcher implements the file-system watcher (C5): recursive
// directory monitoring with debounce or batch coalescing, dispatching
// created/modified/deleted events. A rename is reported as a deletion of
// the old path; the watcher never emits EventMoved itself.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// EventType enumerates the structured events the watcher emits.
type EventType string

const (
	EventCreated  EventType = "created"
	EventModified EventType = "modified"
	EventDeleted  EventType = "deleted"
	EventMoved    EventType = "moved"
)

// Event is one coalesced, dispatch-ready filesystem change.
type Event struct {
	Type    EventType
	Path    string
	OldPath string
	Ts      time.Time
}

// Mode selects the coalescing strategy.
type Mode string

const (
	ModeDebounce Mode = "debounce"
	ModeBatch    Mode = "batch"
)

// Config configures one Watcher instance, defaults grounded on
// original_source/src/watcher/config.py.
type Config struct {
	Dirs            []string
	Recursive       bool
	Extensions      []string
	MaxFileSizeMB   int
	IgnorePatterns  []string
	Mode            Mode
	DebounceMS      int
	BatchMS         int

	// CheckpointPath, if set, persists a path->mtime index across restarts
	// (original_source/src/watcher's loadIndexState/saveIndexState) so
	// Start's initial reconciliation walk only re-dispatches files that are
	// new or modified since the checkpoint was last saved.
	CheckpointPath string
}

func DefaultConfig() Config {
	return Config{
		Recursive:     true,
		Extensions:    []string{".md", ".txt"},
		MaxFileSizeMB: 10,
		IgnorePatterns: []string{
			"*.tmp", "*.swp", "*~", ".DS_Store", "Thumbs.db",
			"__pycache__", "*.pyc", ".git", ".svn", ".hg",
		},
		Mode:       ModeDebounce,
		DebounceMS: 500,
		BatchMS:    1000,
	}
}

// Dispatcher receives coalesced events and reports failures by returning an
// error; per spec.md §7, dispatch errors never propagate to the host —
// they only increment the watcher's error counter and are logged.
type Dispatcher func(Event) error

// Health mirrors spec.md §4.3's health signal shape.
type Health struct {
	Healthy   bool
	Issues    []string
	ErrorRate float64
}

// Watcher monitors Config.Dirs and coalesces events per Config.Mode.
type Watcher struct {
	cfg        Config
	dispatch   Dispatcher
	fsWatcher  *fsnotify.Watcher
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	mu          sync.Mutex
	pending     map[string]Event
	timers      map[string]*time.Timer
	batchTimer  *time.Timer
	knownPaths  map[string]time.Time

	activeDirs    []string
	totalEvents   atomic.Int64
	dispatchErrs  atomic.Int64
	running       atomic.Bool
}

// New constructs a Watcher. It does not start monitoring until Start is
// called.
func New(cfg Config, dispatch Dispatcher) *Watcher {
	if cfg.DebounceMS <= 0 {
		cfg.DebounceMS = 500
	}
	if cfg.BatchMS <= 0 {
		cfg.BatchMS = 1000
	}
	return &Watcher{
		cfg:        cfg,
		dispatch:   dispatch,
		pending:    make(map[string]Event),
		timers:     make(map[string]*time.Timer),
		knownPaths: make(map[string]time.Time),
	}
}

// Start validates each configured directory (existence, readability),
// skips invalid ones, and begins monitoring. It returns an error if the
// fsnotify watcher cannot be created or if no directory was usable.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fsWatcher = fsw
	w.ctx, w.cancel = context.WithCancel(ctx)

	if cp := loadCheckpoint(w.cfg.CheckpointPath); cp != nil {
		w.knownPaths = cp
	}

	for _, dir := range w.cfg.Dirs {
		if !w.validDir(dir) {
			slog.Warn("watcher: skipping invalid directory", "dir", dir)
			continue
		}
		if err := w.addDir(dir); err != nil {
			slog.Warn("watcher: failed to add directory", "dir", dir, "error", err)
			continue
		}
		w.activeDirs = append(w.activeDirs, dir)
	}

	if len(w.activeDirs) == 0 {
		fsw.Close()
		return errNoValidDirs
	}

	w.reconcile()

	w.running.Store(true)
	w.wg.Add(1)
	go w.loop()
	return nil
}

// reconcile walks every active directory once at startup and dispatches
// Created/Modified for any file whose mtime has advanced past (or is absent
// from) the loaded checkpoint, skipping files the checkpoint shows as
// unchanged. This lets a restart resume without re-ingesting an entire
// document root.
func (w *Watcher) reconcile() {
	w.mu.Lock()
	seen := make(map[string]time.Time, len(w.knownPaths))
	w.mu.Unlock()

	for _, dir := range w.activeDirs {
		_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			if w.isIgnored(path) || !w.extensionAllowed(path) || !w.sizeAllowed(path) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			mtime := info.ModTime()
			seen[path] = mtime

			w.mu.Lock()
			prior, known := w.knownPaths[path]
			w.mu.Unlock()

			if !known {
				w.totalEvents.Add(1)
				w.safeDispatch(Event{Type: EventCreated, Path: path, Ts: mtime})
			} else if mtime.After(prior) {
				w.totalEvents.Add(1)
				w.safeDispatch(Event{Type: EventModified, Path: path, Ts: mtime})
			}
			return nil
		})
	}

	w.mu.Lock()
	w.knownPaths = seen
	w.mu.Unlock()
}

var errNoValidDirs = &noValidDirsError{}

type noValidDirsError struct{}

func (e *noValidDirsError) Error() string { return "no valid watch directories" }

func (w *Watcher) validDir(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	f, err := os.Open(dir)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

func (w *Watcher) addDir(dir string) error {
	if err := w.fsWatcher.Add(dir); err != nil {
		return err
	}
	if !w.cfg.Recursive {
		return nil
	}
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && path != dir {
			if w.isIgnored(path) {
				return filepath.SkipDir
			}
			_ = w.fsWatcher.Add(path)
		}
		return nil
	})
}

func (w *Watcher) isIgnored(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range w.cfg.IgnorePatterns {
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) extensionAllowed(path string) bool {
	ext := filepath.Ext(path)
	for _, allowed := range w.cfg.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func (w *Watcher) sizeAllowed(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return true // deletions: file is already gone, allow through
	}
	if !info.Mode().IsRegular() {
		return false
	}
	capBytes := int64(w.cfg.MaxFileSizeMB) * 1024 * 1024
	return info.Size() <= capBytes
}

// Stop cancels all pending debounce/batch timers (events still waiting on
// them are dropped, not dispatched), waits up to drainTimeout for the event
// loop goroutine to exit, releases OS handles, and saves the checkpoint.
// It does not wait for dispatches already running on a timer goroutine.
func (w *Watcher) Stop(drainTimeout time.Duration) {
	if !w.running.Load() {
		return
	}
	w.running.Store(false)
	w.cancel()

	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	if w.batchTimer != nil {
		w.batchTimer.Stop()
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(drainTimeout):
	}

	w.fsWatcher.Close()

	w.mu.Lock()
	snapshot := make(map[string]time.Time, len(w.knownPaths))
	for p, t := range w.knownPaths {
		snapshot[p] = t
	}
	w.mu.Unlock()
	if err := saveCheckpoint(w.cfg.CheckpointPath, snapshot); err != nil {
		slog.Warn("watcher: failed to save checkpoint", "error", err)
	}
}

// Status reports the health signal of spec.md §4.3.
func (w *Watcher) Status() Health {
	total := w.totalEvents.Load()
	errs := w.dispatchErrs.Load()
	var rate float64
	if total > 0 {
		rate = float64(errs) / float64(total)
	}

	var issues []string
	allDirsExist := true
	for _, d := range w.activeDirs {
		if !w.validDir(d) {
			allDirsExist = false
			issues = append(issues, "directory no longer exists: "+d)
		}
	}
	healthy := w.running.Load() && rate < 0.1 && allDirsExist

	return Health{Healthy: healthy, Issues: issues, ErrorRate: rate}
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleRawEvent(ev)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher: fsnotify error", "error", err)
		}
	}
}

func (w *Watcher) handleRawEvent(ev fsnotify.Event) {
	if w.isIgnored(ev.Name) {
		return
	}
	// A newly created subdirectory has no watched extension and is not a
	// regular file, so it is picked up here, ahead of those filters.
	if ev.Op&fsnotify.Create != 0 && w.cfg.Recursive {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = w.addDir(ev.Name)
			return
		}
	}
	if !w.extensionAllowed(ev.Name) {
		return
	}

	var evType EventType
	switch {
	case ev.Op&fsnotify.Create != 0:
		evType = EventCreated
		if !w.sizeAllowed(ev.Name) {
			return
		}
	case ev.Op&fsnotify.Write != 0:
		evType = EventModified
		if !w.sizeAllowed(ev.Name) {
			return
		}
	case ev.Op&fsnotify.Remove != 0, ev.Op&fsnotify.Rename != 0:
		evType = EventDeleted
	default:
		return
	}

	now := time.Now()
	w.mu.Lock()
	if evType == EventDeleted {
		delete(w.knownPaths, ev.Name)
	} else {
		w.knownPaths[ev.Name] = now
	}
	w.mu.Unlock()

	w.totalEvents.Add(1)
	w.enqueue(Event{Type: evType, Path: ev.Name, Ts: now})
}

func (w *Watcher) enqueue(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[ev.Path] = ev

	switch w.cfg.Mode {
	case ModeBatch:
		if w.batchTimer == nil {
			w.batchTimer = time.AfterFunc(time.Duration(w.cfg.BatchMS)*time.Millisecond, w.flushBatch)
		}
	default: // debounce
		if t, ok := w.timers[ev.Path]; ok {
			t.Stop()
		}
		path := ev.Path
		w.timers[ev.Path] = time.AfterFunc(time.Duration(w.cfg.DebounceMS)*time.Millisecond, func() {
			w.flushOne(path)
		})
	}
}

func (w *Watcher) flushOne(path string) {
	w.mu.Lock()
	ev, ok := w.pending[path]
	delete(w.pending, path)
	delete(w.timers, path)
	w.mu.Unlock()

	if ok {
		w.safeDispatch(ev)
	}
}

func (w *Watcher) flushBatch() {
	w.mu.Lock()
	events := make([]Event, 0, len(w.pending))
	for _, ev := range w.pending {
		events = append(events, ev)
	}
	w.pending = make(map[string]Event)
	w.batchTimer = nil
	w.mu.Unlock()

	for _, ev := range events {
		w.safeDispatch(ev)
	}
}

func (w *Watcher) safeDispatch(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			w.dispatchErrs.Add(1)
			slog.Error("watcher: dispatch panicked", "path", ev.Path, "recovered", r)
		}
	}()
	if err := w.dispatch(ev); err != nil {
		w.dispatchErrs.Add(1)
		slog.Error("watcher: dispatch failed", "path", ev.Path, "error", err)
	}
}
