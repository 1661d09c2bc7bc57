package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long a file must stay quiet before it is reloaded. Saves
// usually arrive as a truncate followed by one or more writes.
const settle = 100 * time.Millisecond

// Watcher reloads a config file whenever it changes on disk.
type Watcher struct {
	path string
	fs   *fsnotify.Watcher
}

// Watch starts watching path. The parent directory is watched rather than
// the file, so editors that save by renaming a temp file are still seen.
func Watch(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return &Watcher{path: filepath.Clean(path), fs: fw}, nil
}

// Run calls onChange with the result of Load after each burst of changes,
// until ctx is done. Watch errors are passed to onChange too. Run closes
// the watcher when it returns.
func (w *Watcher) Run(ctx context.Context, onChange func(Config, error)) error {
	defer w.fs.Close()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pending = time.After(settle)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			onChange(Config{}, fmt.Errorf("watch %s: %w", w.path, err))
		case <-pending:
			pending = nil
			onChange(Load(w.path))
		}
	}
}
