package knowledge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"codeberg.org/techcorp/supportbot/internal/document"
	"codeberg.org/techcorp/supportbot/internal/logger"
)

const watchedOps = fsnotify.Create | fsnotify.Write | fsnotify.Rename | fsnotify.Remove

// rebuilds the index when PDFs in the documents directories change; blocks until ctx is done
func (s *Service) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	defer watcher.Close() //nolint:errcheck

	watched := 0

	for _, dir := range s.config.DocumentDirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}

		if err := watcher.Add(dir); err != nil {
			logger.Warn("failed to watch documents directory", "dir", dir, "error", err)
			continue
		}

		watched++
	}

	if watched == 0 {
		return fmt.Errorf("no documents directory to watch in %v", s.config.DocumentDirs)
	}

	logger.Info("watching documents", "dirs", s.config.DocumentDirs, "debounce", s.config.WatchDebounce.String())

	// stopped until the first relevant event
	timer := time.NewTimer(s.config.WatchDebounce)
	timer.Stop()

	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !document.IsPDF(event.Name) || event.Op&watchedOps == 0 {
				continue
			}

			logger.Debug("document changed", "path", event.Name, "op", event.Op.String())
			timer.Reset(s.config.WatchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.Warn("document watcher error", "error", err)

		case <-timer.C:
			chunks, err := s.Rebuild(ctx)

			switch {
			case errors.Is(err, ErrNoDocuments):
				logger.Warn("documents removed, keeping current knowledge base")
			case err != nil:
				logger.ErrorErr(err, "failed to rebuild knowledge base after document change")
			default:
				logger.Info("knowledge base rebuilt after document change", "chunks", chunks)
			}
		}
	}
}
