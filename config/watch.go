package config

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors the config file at path and invokes onChange with the
// freshly loaded Config after every write. It blocks until ctx is
// cancelled.
//
// A failed reload (invalid YAML, validation error) is logged and
// swallowed: the previous config stays active and onChange is not called.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err = watcher.Add(path); err != nil {
		return err
	}

	slog.Info("config: watching", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors commonly save atomically via rename, which shows up
			// as Create rather than Write.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, loadErr := Load(path)
			if loadErr != nil {
				slog.Error("config: reload failed, keeping previous", "path", path, "err", loadErr)
				continue
			}

			slog.Info("config: reloaded", "path", path)
			onChange(cfg)

			// An atomic save may have replaced the inode; re-register.
			_ = watcher.Add(path)

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", werr)
		}
	}
}
