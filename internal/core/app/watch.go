package app

import (
	"context"
	"hookdeps/internal/core/watcher"
	"hookdeps/internal/shared/observability"
	"hookdeps/internal/shared/util"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// WatchUpdate is delivered after every re-lint.
type WatchUpdate struct {
	Changed []FileResult
	Files   []FileResult
}

// Diagnostics counts the findings across all tracked files.
func (u WatchUpdate) Diagnostics() int {
	return RunResult{Files: u.Files}.Diagnostics()
}

// Session tracks the latest result per file while watching.
type Session struct {
	app      *App
	fix      bool
	onUpdate func(WatchUpdate)

	mu    sync.Mutex
	files map[string]FileResult
}

func NewSession(app *App, fix bool, onUpdate func(WatchUpdate)) *Session {
	if onUpdate == nil {
		onUpdate = func(WatchUpdate) {}
	}
	return &Session{app: app, fix: fix, onUpdate: onUpdate, files: make(map[string]FileResult)}
}

// Seed replaces the tracked state with a full run.
func (s *Session) Seed(res RunResult) {
	s.mu.Lock()
	s.files = make(map[string]FileResult, len(res.Files))
	for _, f := range res.Files {
		s.files[f.Path] = f
	}
	s.mu.Unlock()
	s.onUpdate(WatchUpdate{Changed: res.Files, Files: s.Snapshot()})
}

// RelintAll re-runs the whole configured tree, used after a config reload.
func (s *Session) RelintAll(ctx context.Context) error {
	res, err := s.app.Run(ctx, RunRequest{Fix: s.fix})
	if err != nil {
		return err
	}
	s.Seed(res)
	return nil
}

// Relint lints the changed paths and publishes the new state.
func (s *Session) Relint(ctx context.Context, paths []string) {
	changed := make([]FileResult, 0, len(paths))
	var lint []string
	for _, path := range paths {
		path = filepath.Clean(path)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			changed = append(changed, FileResult{Path: path, Removed: true})
			continue
		}
		if s.app.Excluded(path) {
			continue
		}
		lint = append(lint, path)
	}

	workers := s.app.CurrentConfig().Workers
	changed = append(changed, s.app.LintFiles(ctx, lint, s.fix, workers)...)
	if len(changed) == 0 {
		return
	}

	s.mu.Lock()
	for _, f := range changed {
		if f.Removed {
			delete(s.files, f.Path)
			continue
		}
		s.files[f.Path] = f
	}
	s.mu.Unlock()

	slog.Info("re-linted changed files", "count", len(changed))
	s.onUpdate(WatchUpdate{Changed: changed, Files: s.Snapshot()})
}

// Snapshot returns the tracked results sorted by path.
func (s *Session) Snapshot() []FileResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]FileResult, 0, len(s.files))
	for _, f := range s.files {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Watch feeds debounced file changes into s until ctx is done. Re-lints are
// throttled to Watch.MaxRelintsPerSecond.
func (a *App) Watch(ctx context.Context, s *Session) error {
	cfg := a.CurrentConfig()

	batches := make(chan []string, 16)
	w, err := watcher.NewWatcher(cfg.Watch.Debounce, cfg.Exclude.Dirs, cfg.Exclude.Files, func(paths []string) {
		select {
		case batches <- paths:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()
	w.SetExtensions(a.SupportedExtensions())
	if err := w.Watch(cfg.Paths); err != nil {
		return err
	}
	slog.Info("watching for changes", "paths", cfg.Paths)

	limiter := util.NewLimiter(cfg.Watch.MaxRelintsPerSecond, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-batches:
			throttled, err := limiter.Acquire(ctx)
			if throttled {
				observability.RelintsThrottledTotal.Inc()
			}
			if err != nil {
				return nil
			}
			s.Relint(ctx, paths)
		}
	}
}
