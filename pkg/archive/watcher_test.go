package archive

import (
	"testing"
	"time"
)

func TestWatcherReloadsOnChange(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping debounce wait in short mode")
	}

	root := t.TempDir()
	store := NewStore(root)
	store.Reload()

	w, err := NewWatcher(store)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	writeExport(t, root, "general.json", `[{"ts":"1.0","user":"a","text":"hello"}]`)

	deadline := time.Now().Add(debounceDelay + 5*time.Second)
	for time.Now().Before(deadline) {
		if store.Current().Len() == 1 {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("Expected watcher to reload the store, still %d messages", store.Current().Len())
}

func TestWatcherClose(t *testing.T) {
	store := NewStore(t.TempDir())

	w, err := NewWatcher(store)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	// closing twice must not panic
	if err := w.Close(); err != nil {
		t.Errorf("Second Close() error = %v", err)
	}
}
