package app

import (
	"context"
	"log/slog"
	"path/filepath"

	"apidocgen/internal/core/errors"
	"apidocgen/internal/core/watcher"
	"apidocgen/internal/shared/util"
)

// StartWatcher re-runs the generator whenever a configured local document
// changes. It requires source.local_dir.
func (a *App) StartWatcher(ctx context.Context) error {
	if a.Config.Source.LocalDir == "" {
		return errors.New(errors.CodeNotSupported, "watch mode requires source.local_dir")
	}
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce.Duration,
		nil,
		a.Config.Watch.Exclude,
		func(paths []string) { a.HandleChanges(ctx, paths) },
	)
	if err != nil {
		return err
	}
	a.activeWatcher = w
	return w.Watch([]string{a.Config.Source.LocalDir})
}

// HandleChanges re-runs when any path names a configured document under the
// local source directory. It reports whether a run happened.
func (a *App) HandleChanges(ctx context.Context, paths []string) bool {
	changed := a.changedDocuments(paths)
	if len(changed) == 0 {
		slog.Debug("ignoring changes outside configured documents", "count", len(paths))
		return false
	}
	slog.Info("detected document changes", "documents", changed)
	if _, err := a.Run(ctx); err != nil {
		slog.Error("re-run failed", "error", err)
	}
	return true
}

func (a *App) changedDocuments(paths []string) []string {
	dir := a.Config.Source.LocalDir
	if dir == "" {
		return nil
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		root = filepath.Clean(dir)
	}

	seen := make(map[string]bool)
	var names []string
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = filepath.Clean(path)
		}
		if !util.HasPathPrefix(abs, root) {
			continue
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil {
			continue
		}
		name := filepath.ToSlash(rel)
		if _, ok := a.Config.Document(name); ok && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
