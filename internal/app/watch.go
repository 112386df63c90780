package app

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of filesystem events an editor save
// produces into a single reload.
const watchDebounce = 250 * time.Millisecond

// watchTools reloads the tool set whenever a manifest in the tools directory
// changes. The returned stop function closes the watcher.
func (a *App) watchTools(ctx context.Context) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(a.config.ToolsPath); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		var timer *time.Timer
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				a.logger.Debug("Tools directory changed.", "event", event.String())
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(watchDebounce, func() {
					if _, err := a.engine.Reload(ctx); err != nil {
						a.logger.Error("Automatic reload failed.", "error", err)
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				a.logger.Warn("Watcher error.", "error", err)
			case <-ctx.Done():
				return
			}
		}
	}()

	a.logger.Info("👀 Watching tools directory for changes.", "path", a.config.ToolsPath)
	return func() { watcher.Close() }, nil
}
