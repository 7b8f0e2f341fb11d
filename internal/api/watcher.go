package api

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce batches bursts of file events into one reload.
const debounce = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the document root and reloads the
// service snapshot after file changes, until ctx is cancelled. onReload (if
// non-nil) runs after every successful reload. New directories created at
// runtime are added to the watch list.
func Watch(ctx context.Context, svc *Service, root string, logger *slog.Logger, onReload func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(debounce)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reloadCh:
			if err := svc.Reload(ctx); err != nil {
				logger.Warn("watcher: reload failed", slog.String("error", err.Error()))
				continue
			}
			if onReload != nil {
				onReload()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				// New directory: start watching it too. Errors are expected
				// for files and short-lived paths.
				_ = addDirsRecursive(w, ev.Name)
			}

			if isRelevant(ev.Name) {
				logger.Debug("watcher: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
				scheduleReload()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: error", slog.String("error", err.Error()))
		}
	}
}

// isRelevant filters out temp files from atomic writes and non-Markdown
// noise.
func isRelevant(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".folio-tmp-") {
		return false
	}
	return strings.HasSuffix(base, ".md") || !strings.Contains(base, ".")
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
}
