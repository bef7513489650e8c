package lsp

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Watcher polls the workspace root and reparses gw files that changed on
// disk. Files open in the editor are left alone; their content comes from
// the editor.
type Watcher struct {
	ws           *Workspace
	onChange     func(doc *Document)
	onRemove     func(path string)
	isOpen       func(path string) bool
	stopCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time
}

func NewWatcher(ws *Workspace, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &Watcher{
		ws:           ws,
		stopCh:       make(chan struct{}),
		pollInterval: interval,
		modTimes:     make(map[string]time.Time),
		onChange:     func(*Document) {},
		onRemove:     func(string) {},
		isOpen:       func(string) bool { return false },
	}
}

func (w *Watcher) Start() {
	go w.run()
}

func (w *Watcher) Stop() {
	close(w.stopCh)
}

func (w *Watcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

// scan runs one polling pass.
func (w *Watcher) scan() {
	current := make(map[string]bool)

	filepath.Walk(w.ws.RootDir(), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != w.ws.RootDir() && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsSource(path) {
			return nil
		}

		current[path] = true

		lastMod, known := w.modTimes[path]
		if known && !info.ModTime().After(lastMod) {
			return nil
		}
		w.modTimes[path] = info.ModTime()
		if w.isOpen(path) {
			return nil
		}
		if doc, err := w.ws.ScanFile(path); err == nil {
			w.onChange(doc)
		}
		return nil
	})

	for path := range w.modTimes {
		if !current[path] {
			delete(w.modTimes, path)
			if !w.isOpen(path) {
				w.ws.RemoveFile(path)
				w.onRemove(path)
			}
		}
	}
}
