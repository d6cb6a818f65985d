package app

import (
	"context"
	"hookdeps/internal/core/errors"
	"hookdeps/internal/engine/deps"
	"hookdeps/internal/shared/observability"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

type RunRequest struct {
	// Paths overrides the configured paths when non-empty.
	Paths []string
	Fix   bool
}

// RunResult holds one result per discovered file, sorted by path.
type RunResult struct {
	Files    []FileResult
	Duration time.Duration
}

// Diagnostics counts the findings of every file.
func (r RunResult) Diagnostics() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Diagnostics)
	}
	return n
}

// Failed counts files that could not be read or parsed.
func (r RunResult) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

// ByKind tallies findings per diagnostic kind.
func (r RunResult) ByKind() map[deps.Kind]int {
	counts := make(map[deps.Kind]int)
	for _, f := range r.Files {
		for _, d := range f.Diagnostics {
			counts[d.Kind]++
		}
	}
	return counts
}

// Run discovers the requested files and lints them on a pool of
// Config.Workers goroutines.
func (a *App) Run(ctx context.Context, req RunRequest) (RunResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "App.Run")
	defer span.End()
	start := time.Now()

	cfg := a.CurrentConfig()
	paths, workers := cfg.Paths, cfg.Workers
	if len(req.Paths) > 0 {
		paths = req.Paths
	}

	files, err := a.Discover(paths)
	if err != nil {
		return RunResult{}, errors.AddContext(err, errors.CtxOperation, "discover")
	}
	span.SetAttributes(attribute.Int("files", len(files)))

	results := a.LintFiles(ctx, files, req.Fix, workers)
	if err := ctx.Err(); err != nil {
		return RunResult{}, err
	}

	out := RunResult{Files: results, Duration: time.Since(start)}
	observability.AnalysisDuration.WithLabelValues("run").Observe(out.Duration.Seconds())
	slog.Info("lint finished", "files", len(files), "diagnostics", out.Diagnostics(), "failed", out.Failed(), "duration", out.Duration)
	span.SetAttributes(attribute.Int("diagnostics", out.Diagnostics()))
	return out, nil
}

// LintFiles lints files concurrently and returns results in input order.
func (a *App) LintFiles(ctx context.Context, files []string, fix bool, workers int) []FileResult {
	ctx, span := observability.Tracer.Start(ctx, "App.LintFiles", trace.WithAttributes(attribute.Int("workers", workers)))
	defer span.End()

	if workers <= 0 {
		workers = 1
	}
	results := make([]FileResult, len(files))
	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, path := range files {
		g.Go(func() error {
			results[i] = a.LintFile(ctx, path, fix)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
