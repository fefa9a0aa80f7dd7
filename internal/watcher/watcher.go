package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors recording directories and fires a callback once a .wav
// file has been quiescent (no writes) long enough to be considered finished.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	tracker   *QuiescenceTracker
	done      chan struct{}
}

// New watches roots recursively. The callback fires with the file path after
// a recording stops changing for quiesce.
func New(roots []string, tracker *QuiescenceTracker) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsWatcher: fsw,
		tracker:   tracker,
		done:      make(chan struct{}),
	}

	for _, root := range roots {
		if err := w.addRecursive(root); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", root, err)
		}
	}

	go w.loop()

	return w, nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return w.fsWatcher.Add(path)
		}
		return nil
	})
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if isRecording(event.Name) {
					w.tracker.Touch(event.Name)
				}

				// Pick up directories created while watching.
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						w.fsWatcher.Add(event.Name)
					}
				}
			}

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}

		case <-w.done:
			return
		}
	}
}

func isRecording(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wav")
}

// Close stops the watcher and cancels pending quiescence timers.
func (w *Watcher) Close() {
	w.tracker.Stop()
	close(w.done)
	w.fsWatcher.Close()
}
