package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// ClassWatcher watches a class directory tree and reports paths of class
// files that were written or created. New subdirectories are picked up as
// the compiler creates them.
type ClassWatcher struct {
	watcher *fsnotify.Watcher
	events  chan string
	errs    chan error
	done    chan struct{}
}

// NewClassWatcher starts watching root and all its subdirectories.
func NewClassWatcher(root string) (*ClassWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fw.Add(path)
		}
		return nil
	})
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch class directory: %w", err)
	}

	w := &ClassWatcher{
		watcher: fw,
		events:  make(chan string),
		errs:    make(chan error),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *ClassWatcher) loop() {
	defer close(w.events)
	defer close(w.errs)

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			// Watch directories the compiler creates on the fly.
			if event.Op&fsnotify.Create != 0 {
				w.addIfDir(event.Name)
			}
			if strings.HasSuffix(event.Name, ".class") {
				select {
				case w.events <- event.Name:
				case <-w.done:
					return
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			case <-w.done:
				return
			}
		}
	}
}

func (w *ClassWatcher) addIfDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	_ = w.watcher.Add(path)
}

// Events delivers paths of changed class files.
func (w *ClassWatcher) Events() <-chan string { return w.events }

// Errors delivers watcher errors.
func (w *ClassWatcher) Errors() <-chan error { return w.errs }

// Close stops the watcher.
func (w *ClassWatcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
