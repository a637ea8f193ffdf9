package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// FileEvent is a change observed on a watched data file
type FileEvent struct {
	Path string
	Op   fsnotify.Op
}

// FileWatcher reports external edits to the JSON data files.
//
// Directories are watched rather than files so that atomic replacements
// (write temp, rename) keep being observed.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	log     *logrus.Logger
}

// NewFileWatcher watches the parent directories of files
func NewFileWatcher(log *logrus.Logger, files ...string) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	fw := &FileWatcher{watcher: w, files: map[string]bool{}, log: log}
	dirs := map[string]bool{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		fw.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return fw, nil
}

// Run logs events until ctx is done. Each relevant event is also sent to
// events when it is non-nil.
func (fw *FileWatcher) Run(ctx context.Context, events chan<- FileEvent) {
	defer fw.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !fw.files[abs] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			fw.log.WithFields(logrus.Fields{"file": abs, "op": event.Op.String()}).Info("Data file changed")
			if events != nil {
				select {
				case events <- FileEvent{Path: abs, Op: event.Op}:
				case <-ctx.Done():
					return
				}
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.log.WithError(err).Warn("Error watching data files")
		}
	}
}
