package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/shuu880/slack-log-viewer/internal/log"
)

// debounceDelay is how long the watcher waits after the last filesystem
// event before reloading. Export syncs touch many files in a burst and
// a single reload should cover the whole burst.
const debounceDelay = 2 * time.Second

// Watcher reloads the store when export files change on disk. It
// watches the export root and its first-level subfolders, the same
// layout LoadDirectory scans.
type Watcher struct {
	store   *Store
	watcher *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer

	closeOnce sync.Once
}

// NewWatcher starts watching the store's export root. The caller owns
// the returned watcher and must Close it on shutdown.
func NewWatcher(store *Store) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{store: store, watcher: fw}
	if err := w.watchTree(); err != nil {
		fw.Close()
		return nil, err
	}

	go w.run()
	return w, nil
}

// watchTree registers the export root and its current subfolders.
// Folders created later are added from the event loop.
func (w *Watcher) watchTree() error {
	root := w.store.Path()
	if err := w.watcher.Add(root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		// the root may appear later; the root watch will see it
		return nil
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if err := w.watcher.Add(dir); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("failed to watch export folder")
		}
	}
	return nil
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			if event.Has(fsnotify.Create) {
				w.maybeWatchDir(event.Name)
			}
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("dumps watcher error")
		}
	}
}

// maybeWatchDir adds newly created first-level folders to the watch set
func (w *Watcher) maybeWatchDir(path string) {
	if filepath.Dir(path) != filepath.Clean(w.store.Path()) {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.watcher.Add(path); err != nil {
		log.Warn().Err(err).Str("dir", path).Msg("failed to watch export folder")
	}
}

// schedule arms the debounce timer, restarting it on every new event
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceDelay, func() {
		log.Info().Str("path", w.store.Path()).Msg("export files changed, reloading archive")
		arch := w.store.Reload()
		log.Info().
			Int("messages", arch.Len()).
			Int("warnings", len(arch.Report().Warnings)).
			Msg("archive reloaded")
	})
}

// Close stops watching and cancels any pending reload
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.watcher.Close()
	})
	return err
}
