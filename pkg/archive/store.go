package archive

import (
	"sync"
	"time"
)

// Store holds the current archive snapshot and swaps it atomically on
// reload. Readers always see a complete snapshot; a reload in progress
// never exposes partial state.
type Store struct {
	path string

	mu       sync.RWMutex
	current  *Archive
	onReload []func(*Archive)
}

// NewStore creates a store for the given export root. The store starts
// with an empty snapshot; call Reload to populate it.
func NewStore(path string) *Store {
	return &Store{
		path:    path,
		current: newArchive(nil, Report{Path: path, LoadedAt: time.Now().UTC()}),
	}
}

// Path returns the export root this store loads from
func (s *Store) Path() string {
	return s.path
}

// Current returns the snapshot installed by the last Reload
func (s *Store) Current() *Archive {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Reload rescans the export root, installs the new snapshot and
// notifies reload listeners. The scan happens outside the lock so
// readers keep serving the old snapshot until the swap.
func (s *Store) Reload() *Archive {
	arch := LoadDirectory(s.path)

	s.mu.Lock()
	s.current = arch
	listeners := make([]func(*Archive), len(s.onReload))
	copy(listeners, s.onReload)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(arch)
	}
	return arch
}

// OnReload registers fn to run after every snapshot swap. Listeners run
// on the reloading goroutine and should not block.
func (s *Store) OnReload(fn func(*Archive)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReload = append(s.onReload, fn)
}
