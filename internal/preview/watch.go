package preview

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/gabe/bossbar/internal/config"
)

// Reload carries the result of re-reading the config file.
type Reload struct {
	Config *config.Config
	Err    error
}

// Watch reloads the config file at path whenever it is written or replaced.
// The channel closes when ctx is done.
func Watch(ctx context.Context, path string) (<-chan Reload, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Editors often replace the file, so watch the directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	base := filepath.Base(path)
	reloads := make(chan Reload, 1)

	go func() {
		defer watcher.Close()
		defer close(reloads)

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != base {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := config.Load(path)
				if err == nil {
					err = cfg.Validate()
				}
				r := Reload{Config: cfg, Err: err}
				if err != nil {
					r.Config = nil
				}
				select {
				case reloads <- r:
				case <-ctx.Done():
					return
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return reloads, nil
}
