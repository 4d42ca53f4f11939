// Package watcher watches hydration inputs and markup files for changes,
// debouncing rapid bursts into single change batches.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vellum-ui/vellum/internal/errors"
	"github.com/vellum-ui/vellum/internal/logging"
)

// EventType classifies a file change.
type EventType int

const (
	EventCreated EventType = iota
	EventModified
	EventDeleted
	EventRenamed
)

func (e EventType) String() string {
	switch e {
	case EventCreated:
		return "created"
	case EventModified:
		return "modified"
	case EventDeleted:
		return "deleted"
	case EventRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// ChangeEvent is one debounced file change.
type ChangeEvent struct {
	Type EventType
	Path string
}

// Filter reports whether a path is interesting.
type Filter func(path string) bool

// Handler receives each debounced batch of changes.
type Handler func(events []ChangeEvent)

// FileWatcher wraps fsnotify with filtering and debouncing.
type FileWatcher struct {
	mu       sync.RWMutex
	watcher  *fsnotify.Watcher
	logger   logging.Logger
	debounce time.Duration
	filters  []Filter
	handlers []Handler

	pending []ChangeEvent
	timer   *time.Timer
	flushMu sync.Mutex
}

// New creates a watcher with the given debounce window.
func New(debounce time.Duration, logger logging.Logger) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.NewIOError("ERR_WATCH_INIT", "creating file watcher", err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &FileWatcher{
		watcher:  w,
		logger:   logger.WithComponent("watcher"),
		debounce: debounce,
	}, nil
}

// AddFilter restricts the watch to paths any filter accepts. With no
// filters every path passes.
func (fw *FileWatcher) AddFilter(f Filter) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.filters = append(fw.filters, f)
}

// AddHandler registers a batch handler.
func (fw *FileWatcher) AddHandler(h Handler) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.handlers = append(fw.handlers, h)
}

// AddPath watches one file or directory.
func (fw *FileWatcher) AddPath(path string) error {
	clean := filepath.Clean(path)
	if err := fw.watcher.Add(clean); err != nil {
		return errors.NewIOError("ERR_WATCH_ADD", "watching "+clean, err)
	}
	return nil
}

// AddRecursive watches a directory tree.
func (fw *FileWatcher) AddRecursive(root string) error {
	return filepath.Walk(filepath.Clean(root), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fw.watcher.Add(path)
		}
		return nil
	})
}

// ExtensionFilter accepts paths with any of the given extensions.
func ExtensionFilter(exts ...string) Filter {
	return func(path string) bool {
		ext := strings.ToLower(filepath.Ext(path))
		for _, e := range exts {
			if ext == e {
				return true
			}
		}
		return false
	}
}

// ExcludePatternFilter rejects paths containing any pattern fragment.
func ExcludePatternFilter(patterns ...string) Filter {
	return func(path string) bool {
		for _, p := range patterns {
			if strings.Contains(path, p) {
				return false
			}
		}
		return true
	}
}

// Start pumps fsnotify events until the context is done.
func (fw *FileWatcher) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-fw.watcher.Events:
				if !ok {
					return
				}
				fw.handleEvent(ev)
			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
				fw.logger.Warn(ctx, err, "watch error")
			}
		}
	}()
}

// Close stops the underlying watcher.
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}

func (fw *FileWatcher) handleEvent(ev fsnotify.Event) {
	if !fw.accept(ev.Name) {
		return
	}

	var kind EventType
	switch {
	case ev.Op&fsnotify.Create != 0:
		kind = EventCreated
	case ev.Op&fsnotify.Write != 0:
		kind = EventModified
	case ev.Op&fsnotify.Remove != 0:
		kind = EventDeleted
	case ev.Op&fsnotify.Rename != 0:
		kind = EventRenamed
	default:
		return
	}

	fw.flushMu.Lock()
	defer fw.flushMu.Unlock()

	fw.pending = append(fw.pending, ChangeEvent{Type: kind, Path: ev.Name})
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(fw.debounce, fw.flush)
}

// accept requires every registered filter to pass.
func (fw *FileWatcher) accept(path string) bool {
	fw.mu.RLock()
	defer fw.mu.RUnlock()
	for _, f := range fw.filters {
		if !f(path) {
			return false
		}
	}
	return true
}

func (fw *FileWatcher) flush() {
	fw.flushMu.Lock()
	batch := fw.pending
	fw.pending = nil
	fw.timer = nil
	fw.flushMu.Unlock()

	if len(batch) == 0 {
		return
	}

	fw.mu.RLock()
	handlers := make([]Handler, len(fw.handlers))
	copy(handlers, fw.handlers)
	fw.mu.RUnlock()

	for _, h := range handlers {
		h(batch)
	}
}
