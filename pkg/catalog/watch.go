package catalog

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/tfesenbecker/palisade/pkg/types"
)

const changeOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Watch marks a file's handle stale whenever the file is written, created,
// renamed or removed, so the next Get reads it again. Directories of the
// files registered at call time are watched until ctx is done.
func (c *Catalog) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return types.StorageError.Wrap(err)
	}

	dirs := make(map[string]bool)
	for _, path := range c.Sources() {
		dir := filepath.Dir(path)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return types.StorageError.New("watch %s: %v", dir, err)
		}
		dirs[dir] = true
		c.log.Debug("watching directory", "dir", dir)
	}

	go c.eventLoop(ctx, watcher)
	return nil
}

func (c *Catalog) eventLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&changeOps == 0 {
				continue
			}
			c.mu.RLock()
			h, registered := c.handles[filepath.Clean(event.Name)]
			c.mu.RUnlock()
			if !registered {
				continue
			}
			c.log.Info("source changed", "path", event.Name, "op", event.Op.String())
			h.MarkStale()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			c.log.Warn("watcher error", "err", err)
		}
	}
}
