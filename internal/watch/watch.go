// Package watch implements the optional hot-reload convenience layered on
// top of the stateless core (SPEC_FULL.md, "--watch hot reload"): watching
// the loaded game file for changes on disk and invoking a callback when one
// is observed.
package watch

import (
	"errors"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes a single game file for content changes.
type Watcher struct {
	fsw  *fsnotify.Watcher
	path string
	done chan struct{}
}

// New starts watching path. onChange is invoked (on its own goroutine, one
// call at a time) whenever the file is written. Callers are responsible for
// any synchronization onChange needs with the rest of the engine — the
// Interpreter's own mutex (spec §5) is the intended target.
func New(path string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{fsw: fsw, path: path, done: make(chan struct{})}
	go w.loop(onChange)
	return w, nil
}

func (w *Watcher) loop(onChange func()) {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Name == w.path && (ev.Op&(fsnotify.Write|fsnotify.Create) != 0) {
				onChange()
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

// Close stops watching and releases the underlying OS resources.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return errors.New("watcher already closed")
	default:
		close(w.done)
	}
	return w.fsw.Close()
}
