package app

import (
	"bytes"
	"context"
	"hookdeps/internal/core/errors"
	"hookdeps/internal/engine/deps"
	"hookdeps/internal/shared/observability"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// maxFixPasses bounds the fix loop; each pass only applies edits that do not
// overlap, so a file with nested call sites may need more than one.
const maxFixPasses = 10

// FileResult is the outcome of linting one file.
type FileResult struct {
	Path        string
	Language    string
	Diagnostics []deps.Diagnostic
	Cached      bool
	Fixed       bool
	// Removed is set by watch mode for files that no longer exist.
	Removed bool
	Err     error
}

// LintFile reads and analyzes path. With fix set, suggested edits are applied
// until the file is stable and the result holds the diagnostics that remain.
// Failures are recorded in the result rather than returned.
func (a *App) LintFile(ctx context.Context, path string, fix bool) FileResult {
	ctx, span := observability.Tracer.Start(ctx, "App.LintFile", trace.WithAttributes(attribute.String("path", path)))
	defer span.End()

	res := FileResult{Path: path, Language: a.languageFor(path)}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	content, err := os.ReadFile(path)
	if err != nil {
		res.Err = errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "read source"), errors.CtxPath, path)
		return a.finish(res)
	}

	if fix {
		fixed, diags, err := a.fixContent(path, content)
		if err != nil {
			res.Err = err
			return a.finish(res)
		}
		if !bytes.Equal(fixed, content) {
			if err := writePreservingMode(path, fixed); err != nil {
				res.Err = errors.AddContext(errors.Wrap(err, errors.CodeInternal, "write fixed source"), errors.CtxPath, path)
				return a.finish(res)
			}
			res.Fixed = true
			observability.FixesApplied.Inc()
			slog.Info("applied fixes", "path", path)
		}
		res.Diagnostics = diags
		return a.finish(res)
	}

	res.Diagnostics, res.Cached, res.Err = a.lintContent(path, content)
	return a.finish(res)
}

// LintSource analyzes content as if it were the file at path, without
// touching the filesystem.
func (a *App) LintSource(path string, content []byte) ([]deps.Diagnostic, error) {
	diags, _, err := a.lintContent(path, content)
	return diags, err
}

func (a *App) lintContent(path string, content []byte) ([]deps.Diagnostic, bool, error) {
	p, analyzer, fp := a.snapshot()
	key := cacheKey{path: path, hash: contentHash(content), fingerprint: fp}
	if diags, ok := a.cache.get(key); ok {
		return diags, true, nil
	}

	start := time.Now()
	tree, err := p.ParseFile(path, content)
	if err != nil {
		return nil, false, err
	}
	defer tree.Close()

	diags := analyzer.Analyze(tree)
	observability.AnalysisDuration.WithLabelValues("analyze").Observe(time.Since(start).Seconds())
	a.cache.put(key, diags)
	return diags, false, nil
}

func (a *App) fixContent(path string, content []byte) ([]byte, []deps.Diagnostic, error) {
	current := content
	for pass := 0; pass < maxFixPasses; pass++ {
		diags, _, err := a.lintContent(path, current)
		if err != nil {
			return nil, nil, err
		}
		edits := deps.CollectEdits(diags)
		if len(edits) == 0 {
			return current, diags, nil
		}
		next, _ := deps.ApplyEdits(current, edits)
		if bytes.Equal(next, current) {
			return current, diags, nil
		}
		current = next
	}
	slog.Warn("fixes did not converge", "path", path, "passes", maxFixPasses)
	diags, _, err := a.lintContent(path, current)
	return current, diags, err
}

func (a *App) finish(res FileResult) FileResult {
	switch {
	case res.Err != nil:
		observability.FilesLinted.WithLabelValues("error").Inc()
		slog.Warn("failed to lint file", "path", res.Path, "error", res.Err)
	case res.Cached:
		observability.FilesLinted.WithLabelValues("cached").Inc()
	default:
		observability.FilesLinted.WithLabelValues("ok").Inc()
	}
	for _, d := range res.Diagnostics {
		observability.DiagnosticsReported.WithLabelValues(d.Kind.String()).Inc()
	}
	slog.Debug("linted file", "path", res.Path, "diagnostics", len(res.Diagnostics), "cached", res.Cached)
	return res
}

func (a *App) languageFor(path string) string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loader.LanguageForPath(path)
}

func writePreservingMode(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, content, mode)
}
