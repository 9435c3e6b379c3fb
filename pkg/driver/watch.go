package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-parses source files under a set of directories whenever they
// are created or written.
type Watcher struct {
	driver *Driver
	w      *fsnotify.Watcher
}

// NewWatcher starts watching dirs and every directory below them. Events
// are delivered once Run is called.
func (d *Driver) NewWatcher(dirs []string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	watcher := &Watcher{driver: d, w: w}
	for _, dir := range dirs {
		if err := watcher.addTree(dir); err != nil {
			w.Close()
			return nil, err
		}
	}
	return watcher, nil
}

func (wt *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to walk '%s': %w", path, err)
		}
		if !entry.IsDir() {
			return nil
		}
		if err := wt.w.Add(path); err != nil {
			return fmt.Errorf("failed to watch '%s': %w", path, err)
		}
		wt.driver.logger.Debug("watching directory", "path", path)
		return nil
	})
}

// Run delivers a Result to fn for every created or written source file until
// ctx is done. The watcher is closed on return.
func (wt *Watcher) Run(ctx context.Context, fn func(*Result)) error {
	defer wt.w.Close()
	logger := wt.driver.logger

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-wt.w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
				if ev.Op&fsnotify.Create != 0 {
					if err := wt.addTree(ev.Name); err != nil {
						logger.Warn("cannot watch new directory", "path", ev.Name, "error", err)
					}
				}
				continue
			}
			if !wt.driver.config.HasSourceExtension(ev.Name) {
				continue
			}
			logger.Debug("file changed", "path", ev.Name, "op", ev.Op.String())
			result, err := wt.driver.ParseFile(ev.Name)
			if err != nil {
				// removed between the event and the read
				logger.Warn("cannot parse changed file", "path", ev.Name, "error", err)
				continue
			}
			fn(result)
		case err, ok := <-wt.w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", "error", err)
		}
	}
}

// Watch watches dirs and calls fn with each re-parsed file until ctx is done.
func (d *Driver) Watch(ctx context.Context, dirs []string, fn func(*Result)) error {
	watcher, err := d.NewWatcher(dirs)
	if err != nil {
		return err
	}
	return watcher.Run(ctx, fn)
}
