// Package watch re-runs a callback whenever a descriptor file changes.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 500 * time.Millisecond

// Watcher watches one file and invokes a callback on change, debounced so a
// burst of editor writes triggers a single run.
type Watcher struct {
	file     string
	callback func() error
	watcher  *fsnotify.Watcher
	done     chan struct{}
}

// New creates a watcher for the given file. The containing directory is
// watched, so the file may be replaced (editors often write-and-rename).
func New(file string, callback func() error) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	absPath, err := filepath.Abs(file)
	if err != nil {
		watcher.Close()
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch directory: %w", err)
	}

	return &Watcher{
		file:     absPath,
		callback: callback,
		watcher:  watcher,
		done:     make(chan struct{}),
	}, nil
}

// Start runs the callback once, then keeps re-running it on changes until
// Stop is called.
func (w *Watcher) Start() error {
	if err := w.callback(); err != nil {
		return err
	}

	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	timer := time.NewTimer(debounce)
	timer.Stop()
	var pending <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			if eventPath, err := filepath.Abs(event.Name); err == nil && eventPath == w.file {
				timer.Reset(debounce)
				pending = timer.C
			}

		case <-pending:
			if err := w.callback(); err != nil {
				fmt.Fprintf(os.Stderr, "watch: %v\n", err)
			}
			pending = nil

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "watch: %v\n", err)

		case <-w.done:
			return
		}
	}
}

// Stop ends the watch.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}
