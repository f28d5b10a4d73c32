// Package watcher implements recursive file system watching for the dev loop.
package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

const eventChannelBuffer = 100

// vcsDirs are skipped wherever they appear.
var vcsDirs = map[string]bool{".git": true, ".jj": true}

// Watcher implements file system watching using fsnotify.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	filter    *ContentFilter
	logger    ports.Logger
	events    chan ports.WatchEvent

	mu      sync.RWMutex
	root    string
	ignored map[string]bool
}

// NewWatcher creates a new file system watcher.
func NewWatcher(logger ports.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrWatcherStartFailed.Error())
	}
	return &Watcher{
		fsWatcher: fsw,
		filter:    NewContentFilter(),
		logger:    logger,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
		ignored:   make(map[string]bool),
	}, nil
}

// Start begins watching root recursively. Entries of ignore are directories
// relative to root, e.g. "dist" or "assets/cache"; they are skipped both now
// and when they are created later. A directory of the same name deeper in
// the tree is still watched.
func (w *Watcher) Start(ctx context.Context, root string, ignore []string) error {
	w.mu.Lock()
	w.root = root
	for _, entry := range ignore {
		if rel := normalizeIgnore(entry); rel != "" {
			w.ignored[rel] = true
		}
	}
	w.mu.Unlock()

	for dir := range w.watchRecursively(root) {
		if err := w.fsWatcher.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrWatcherStartFailed.Error()), "dir", dir)
		}
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events returns an iterator of file system events.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

func (w *Watcher) watchRecursively(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // skip directories that cannot be read
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && w.shouldSkip(path) {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Watcher) shouldSkip(dir string) bool {
	if vcsDirs[filepath.Base(dir)] {
		return true
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	rel, err := filepath.Rel(w.root, dir)
	if err != nil {
		return false
	}
	return w.ignored[filepath.ToSlash(rel)]
}

// normalizeIgnore turns an ignore entry into a clean slash-separated path
// relative to the root, or "" when it names the root itself.
func normalizeIgnore(entry string) string {
	rel := path.Clean(strings.TrimPrefix(filepath.ToSlash(entry), "./"))
	if rel == "." || rel == "/" {
		return ""
	}
	return strings.TrimPrefix(rel, "/")
}

//nolint:cyclop // one select over events, errors and cancellation
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			watchEvent, ok := convertEvent(event)
			if !ok {
				continue
			}

			if watchEvent.Operation == ports.OpCreate {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !w.shouldSkip(event.Name) {
						for dir := range w.watchRecursively(event.Name) {
							_ = w.fsWatcher.Add(dir)
						}
					}
					continue
				}
			}

			if !w.filter.Changed(watchEvent) {
				continue
			}

			select {
			case w.events <- watchEvent:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error(zerr.Wrap(err, "file system watch error"))
		}
	}
}

func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	switch {
	case event.Has(fsnotify.Write):
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpWrite}, true
	case event.Has(fsnotify.Create):
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpCreate}, true
	case event.Has(fsnotify.Remove):
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpRemove}, true
	case event.Has(fsnotify.Rename):
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpRename}, true
	default:
		return ports.WatchEvent{}, false
	}
}
