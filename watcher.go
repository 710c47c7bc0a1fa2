package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pipe01/tagtree/internal/workspace"
	"github.com/tliron/commonlog"
)

type Watcher struct {
	mu                          sync.Mutex
	watchingDirs, watchingFiles map[string]struct{}

	// Serializes recompiles, since the initial pass in watchFiles overlaps
	// eventLoop.
	compileMu sync.Mutex

	ws      *workspace.Workspace
	watcher *fsnotify.Watcher
	log     commonlog.Logger
}

func NewWatcher() (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	wd, _ := os.Getwd()

	w := &Watcher{
		watchingDirs:  make(map[string]struct{}),
		watchingFiles: make(map[string]struct{}),
		ws:            workspace.New(wd, lexOpts),
		watcher:       watcher,
		log:           commonlog.GetLogger("tagtree.watch"),
	}
	go w.eventLoop()

	return w, nil
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) WatchFile(path string) error {
	fullPath, _ := filepath.Abs(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.watchingFiles[fullPath] = struct{}{}

	dir := filepath.Dir(fullPath)
	if _, ok := w.watchingDirs[dir]; ok {
		return nil
	}

	err := w.watcher.Add(dir)
	if err != nil {
		return err
	}

	w.watchingDirs[dir] = struct{}{}

	return nil
}

func (w *Watcher) isWatched(fullPath string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, ok := w.watchingFiles[fullPath]
	return ok
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			fname, _ := filepath.Abs(event.Name)

			if !w.isWatched(fname) {
				continue
			}

			w.fileModified(fname)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Errorf("watch error: %s", err)
		}
	}
}

func (w *Watcher) fileModified(path string) {
	fullPath, _ := filepath.Abs(path)

	w.compileMu.Lock()
	defer w.compileMu.Unlock()

	w.log.Infof("file %q modified, recompiling...", filepath.Base(fullPath))

	w.ws.Forget(fullPath)

	_, err := generateFile(w.ws, fullPath)
	if err != nil {
		w.log.Errorf("failed to generate file %q: %s", fullPath, describe(err))
	}
}
