package defaults

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce collapses the burst of events an editor emits on save
// (truncate, write, chmod, rename) into one reload.
const reloadDebounce = 250 * time.Millisecond

// Watch reloads overrides whenever a YAML file in the override directory
// changes. It blocks until ctx is cancelled. With no override directory it
// returns immediately.
func (l *Loader) Watch(ctx context.Context) error {
	if l.dir == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("defaults: creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(l.dir); err != nil {
		return fmt.Errorf("defaults: watching %s: %w", l.dir, err)
	}
	l.logger.Info("watching sample overrides", slog.String("dir", l.dir))

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isSampleFile(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, func() {
				if err := l.Reload(); err != nil {
					l.logger.Warn("sample reload failed, keeping previous samples",
						slog.String("error", err.Error()),
					)
					return
				}
				l.logger.Info("sample overrides reloaded", slog.String("trigger", event.Name))
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logger.Warn("sample watcher error", slog.String("error", err.Error()))
		}
	}
}

func isSampleFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
