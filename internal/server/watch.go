package server

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/timeruler/pkg/timeline"
)

// Watch reloads the snapshot whenever the data file at path is written or
// replaced. It blocks until ctx is done. Files that fail to parse are
// logged and the previous snapshot stays in place.
func (s *Server) Watch(ctx context.Context, path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory so editors that replace the file are seen.
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	s.logger.Info("watching data file", "path", abs)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Name != abs || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			s.reload(abs)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watch error", "error", err)
		}
	}
}

func (s *Server) reload(path string) {
	data, err := timeline.ReadDataFile(path)
	if err != nil {
		s.logger.Warn("reload failed, keeping previous timeline", "path", path, "error", err)
		return
	}
	s.SetData(data)
}
