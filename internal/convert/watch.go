package convert

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RunCallback receives the report of each watcher-driven pass.
type RunCallback func(report *Report, err error)

// Watch starts an fsnotify watcher on vaultRoot and runs the pipeline after
// markdown files are created, written, or renamed. Events are debounced so a
// burst of changes triggers one pass. It blocks until ctx is cancelled.
//
// Passes caused by the pipeline's own writes find nothing left to convert,
// so the loop settles after at most one extra pass.
func (s *Service) Watch(ctx context.Context, vaultRoot string, debounce time.Duration, cb RunCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, vaultRoot); err != nil {
		return err
	}

	s.logger.Info("watcher: started", slog.String("root", vaultRoot))

	var runTimer *time.Timer
	var runCh <-chan time.Time

	scheduleRun := func() {
		if runTimer == nil {
			runTimer = time.NewTimer(debounce)
			runCh = runTimer.C
		} else {
			runTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if runTimer != nil {
				runTimer.Stop()
			}
			s.logger.Info("watcher: stopped")
			return nil

		case <-runCh:
			report, runErr := s.Run()
			if runErr != nil {
				s.logger.Error("watcher: pass failed", slog.String("error", runErr.Error()))
			} else {
				s.logger.Debug("watcher: pass done",
					slog.Int("renamed", len(report.Renamed)),
					slog.Int("relinked", len(report.Relinked)))
			}
			if cb != nil {
				cb(report, runErr)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						s.logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					scheduleRun()
					continue
				}
			}

			if !s.filter.Match(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				s.logger.Debug("watcher: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
				scheduleRun()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
