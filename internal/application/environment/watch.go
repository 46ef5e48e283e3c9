package environment

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is the quiet period a path needs before its change is reported
const debounce = 100 * time.Millisecond

// Watcher reports changed config files under the watched directories
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher watches dirs (not recursively) for config file changes
func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher. Events and Errors are closed once it has stopped
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer func() {
		close(w.Events)
		close(w.Errors)
		close(w.done)
	}()

	// pending holds the time each changed path becomes quiet; every burst
	// restarts its path, so the report follows the last write
	pending := make(map[string]time.Time)
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	var quiet <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !isConfigFile(event.Name) {
				continue
			}
			// new deadlines are never earlier than pending ones
			if len(pending) == 0 {
				timer.Reset(debounce)
				quiet = timer.C
			}
			pending[event.Name] = time.Now().Add(debounce)
		case <-quiet:
			if !w.flush(pending, time.Now()) {
				return
			}
			quiet = nil
			if next, ok := earliest(pending); ok {
				timer.Reset(max(next.Sub(time.Now()), 0))
				quiet = timer.C
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
				// one pending error is enough to report
			}
		case <-w.closeCh:
			return
		}
	}
}

// flush reports every pending path that has been quiet since now, in name order
func (w *Watcher) flush(pending map[string]time.Time, now time.Time) bool {
	var ready []string
	for path, at := range pending {
		if !at.After(now) {
			ready = append(ready, path)
		}
	}
	slices.Sort(ready)
	for _, path := range ready {
		delete(pending, path)
		select {
		case w.Events <- path:
		case <-w.closeCh:
			return false
		}
	}
	return true
}

func earliest(pending map[string]time.Time) (time.Time, bool) {
	var first time.Time
	for _, at := range pending {
		if first.IsZero() || at.Before(first) {
			first = at
		}
	}
	return first, !first.IsZero()
}

func isConfigFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
