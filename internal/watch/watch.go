// Package watch monitors the directories behind a set of selections and
// reports, debounced, which selections should be re-swept after filesystem
// activity. Each selection is watched at the static prefix of its glob
// pattern (the part before the first metacharacter).
package watch

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/papapumpkin/housekeeper/internal/sweep"
)

// Trigger names the selections to re-sweep after activity under a directory.
type Trigger struct {
	Dir        string // directory the activity happened under
	Selections []sweep.Selection
}

// Watcher monitors selection directories using fsnotify.
type Watcher struct {
	Triggers <-chan Trigger // read-only external channel

	triggers chan Trigger
	done     chan struct{}
	watcher  *fsnotify.Watcher
	byDir    map[string][]sweep.Selection
}

// New creates a watcher covering every selection's static directory prefix.
// Selections whose prefix does not exist are skipped.
func New(selections []sweep.Selection) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Trigger, 16)
	w := &Watcher{
		Triggers: ch,
		triggers: ch,
		done:     make(chan struct{}),
		watcher:  fw,
		byDir:    make(map[string][]sweep.Selection),
	}
	for _, sel := range selections {
		dir := StaticPrefix(sel.Pattern)
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		w.byDir[dir] = append(w.byDir[dir], sel)
	}
	return w, nil
}

// Start begins watching. It fails if no selection directory exists.
func (w *Watcher) Start() error {
	if len(w.byDir) == 0 {
		w.watcher.Close()
		return ErrNothingToWatch
	}
	for dir := range w.byDir {
		if err := w.watcher.Add(dir); err != nil {
			w.watcher.Close()
			return err
		}
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and channels.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.triggers)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: track last event time per directory so a burst of writes
	// triggers one sweep, not one per file.
	const debounce = 500 * time.Millisecond
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				for dir := range pending {
					w.emit(dir)
				}
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				if dir := w.owningDir(event.Name); dir != "" {
					pending[dir] = time.Now()
				}
			}

		case _, ok := <-ticker.C:
			if !ok {
				return
			}
			now := time.Now()
			for dir, t := range pending {
				if now.Sub(t) >= debounce {
					w.emit(dir)
					delete(pending, dir)
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
		}
	}
}

func (w *Watcher) owningDir(name string) string {
	for dir := range w.byDir {
		if name == dir || strings.HasPrefix(name, dir+string(filepath.Separator)) {
			return dir
		}
	}
	return ""
}

func (w *Watcher) emit(dir string) {
	w.triggers <- Trigger{Dir: dir, Selections: w.byDir[dir]}
}

// StaticPrefix returns the longest directory prefix of a glob pattern that
// contains no metacharacters. A fully static pattern yields its own
// directory.
func StaticPrefix(pattern string) string {
	sep := string(filepath.Separator)
	parts := strings.Split(pattern, sep)
	var static []string
	for i, part := range parts {
		if strings.ContainsAny(part, `*?[\`) {
			break
		}
		// The last element names the entry itself, not a directory.
		if i == len(parts)-1 {
			break
		}
		static = append(static, part)
	}
	if len(static) == 0 {
		return "."
	}
	dir := strings.Join(static, sep)
	if dir == "" {
		return sep
	}
	return dir
}
