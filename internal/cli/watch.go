package cli

import (
	"context"
	"path/filepath"
	"time"

	"resumeats/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events an editor save produces
const watchDebounce = 250 * time.Millisecond

// watchFiles calls run each time one of files is written or replaced, until
// ctx is done. Directories are watched rather than the files themselves so
// atomic saves that rename over the original are still seen.
func watchFiles(ctx context.Context, files []string, logger *errors.Logger, run func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotReadable, "failed to create file watcher", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return errors.NewIOError(errors.ErrCodeFileNotReadable, "failed to resolve "+file, err)
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return errors.NewIOError(errors.ErrCodeFileNotReadable, "failed to watch "+dir, err).
				WithContext("directory", dir)
		}
	}

	logger.Info("Watching for changes", "files", len(files))

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			logger.Debug("File watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				logger.Debug("File changed", "file", event.Name, "op", event.Op.String())
				debounce = time.After(watchDebounce)
			}

		case <-debounce:
			debounce = nil
			if err := run(ctx); err != nil {
				logger.LogError(err, "Analysis failed after change")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error", "error", err.Error())
		}
	}
}
