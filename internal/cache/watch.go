package cache

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// watcher emits a signal on events whenever the cache file changes on
// disk for a reason other than our own atomic persist — most notably, a
// peer device overwriting it through a synchronized folder.
type watcher struct {
	fsw    *fsnotify.Watcher
	events chan struct{}
	base   string

	mu     sync.Mutex
	ignore bool

	done chan struct{}
}

func newWatcher(path string) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &watcher{
		fsw:    fsw,
		events: make(chan struct{}, 1),
		base:   filepath.Base(path),
		done:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *watcher) run() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != w.base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if w.consumeIgnore() {
				continue
			}
			select {
			case w.events <- struct{}{}:
			default:
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

// ignoreNextWrite suppresses the next matching filesystem event, called
// immediately before persist's own rename so that a self-triggered event
// is not reported as an external change.
func (w *watcher) ignoreNextWrite() {
	w.mu.Lock()
	w.ignore = true
	w.mu.Unlock()
}

func (w *watcher) consumeIgnore() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ignore {
		w.ignore = false
		return true
	}
	return false
}

func (w *watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
