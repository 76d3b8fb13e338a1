// Package watcher notifies when the checked out revision of a git working
// tree moves: commits, checkouts, merges and pulls.
package watcher

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last ref event before a change is emitted.
const DefaultDebounce = 500 * time.Millisecond

// RefWatcher watches the refs of a repository and emits one notification per
// burst of ref updates.
type RefWatcher struct {
	watcher  *fsnotify.Watcher
	gitDir   string
	debounce time.Duration

	changes chan struct{}
	errors  chan error
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// New creates a watcher for the working tree at root.
// The watcher must be started with Start() before it will emit changes.
func New(root string, debounce time.Duration) (*RefWatcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &RefWatcher{
		watcher:  w,
		gitDir:   filepath.Join(root, ".git"),
		debounce: debounce,
		changes:  make(chan struct{}, 1),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. It watches the git directory and its branch refs.
func (rw *RefWatcher) Start() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.running {
		return fmt.Errorf("watcher already running")
	}

	for _, dir := range []string{rw.gitDir, filepath.Join(rw.gitDir, "refs", "heads")} {
		if err := rw.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	rw.running = true
	rw.wg.Add(1)
	go rw.processEvents()
	return nil
}

// Stop stops watching and closes the channels.
// It blocks until the event processing goroutine has exited.
func (rw *RefWatcher) Stop() error {
	rw.mu.Lock()
	if !rw.running {
		rw.mu.Unlock()
		return nil
	}
	rw.running = false
	rw.mu.Unlock()

	close(rw.done)
	if err := rw.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	rw.wg.Wait()

	close(rw.changes)
	close(rw.errors)
	return nil
}

// Changes emits once per burst of ref updates.
// Notifications are coalesced while the receiver is busy.
func (rw *RefWatcher) Changes() <-chan struct{} {
	return rw.changes
}

// Errors returns the channel of watch errors.
func (rw *RefWatcher) Errors() <-chan error {
	return rw.errors
}

func (rw *RefWatcher) processEvents() {
	defer rw.wg.Done()

	timer := time.NewTimer(rw.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-rw.done:
			return

		case event, ok := <-rw.watcher.Events:
			if !ok {
				return
			}
			if rw.isRefEvent(event) {
				timer.Reset(rw.debounce)
			}

		case <-timer.C:
			select {
			case rw.changes <- struct{}{}:
			default:
				// a notification is already pending
			}

		case err, ok := <-rw.watcher.Errors:
			if !ok {
				return
			}
			select {
			case rw.errors <- err:
			case <-rw.done:
				return
			}
		}
	}
}

// isRefEvent keeps writes to HEAD, packed-refs and branch refs. Lock files
// written by git during an update are ignored.
func (rw *RefWatcher) isRefEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	if strings.HasSuffix(name, ".lock") {
		return false
	}
	if filepath.Dir(event.Name) == filepath.Join(rw.gitDir, "refs", "heads") {
		return true
	}
	return name == "HEAD" || name == "packed-refs" || name == "ORIG_HEAD"
}
