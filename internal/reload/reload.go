// Package reload watches the active layout file for changes and invokes
// a callback to rebuild and swap in a new engine, using fsnotify the way
// witnessd (an input-capture tool in this retrieval pack) watches its own
// config tree.
package reload

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Callback is invoked whenever the watched layout file changes. It is
// responsible for reloading and swapping state; Watcher only detects the
// change.
type Callback func(path string)

// Watcher observes one layout file path for writes and renames (editors
// commonly replace a file via rename-into-place on save).
type Watcher struct {
	fsw      *fsnotify.Watcher
	path     string
	dir      string
	onChange Callback
	logger   *slog.Logger
	done     chan struct{}
}

// New starts watching path's parent directory (not the file itself,
// since editors routinely replace a watched file's inode on save, which
// would silently stop a direct watch on that inode).
func New(path string, onChange Callback, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("reload: creating watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("reload: watching %s: %w", dir, err)
	}

	w := &Watcher{
		fsw:      fsw,
		path:     filepath.Clean(path),
		dir:      dir,
		onChange: onChange,
		logger:   logger,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Info("layout file changed, reloading", "path", ev.Name, "op", ev.Op.String())
			w.onChange(w.path)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	return err
}
