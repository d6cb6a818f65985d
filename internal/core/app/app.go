// Package app is the lint host: it discovers source files, runs the hook
// dependency analyzer over them on a worker pool, applies fixes and keeps a
// per-file result cache for watch mode.
package app

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"hookdeps/internal/core/config"
	"hookdeps/internal/core/errors"
	"hookdeps/internal/engine/deps"
	"hookdeps/internal/engine/parser"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"
)

type App struct {
	mu       sync.RWMutex
	cfg      *config.Config
	loader   *parser.GrammarLoader
	parser   *parser.Parser
	analyzer *deps.Analyzer
	// fingerprint identifies the rule options and is part of every cache key.
	fingerprint string

	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob

	cache *resultCache
}

func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New(errors.CodeValidationError, "config is required")
	}
	cache, err := newResultCache(cfg.Cache.Files)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "create result cache")
	}
	a := &App{cache: cache}
	if err := a.Reconfigure(cfg); err != nil {
		return nil, err
	}
	return a, nil
}

// Reconfigure swaps in a new configuration. Cached results computed under
// other rule options stop matching because the fingerprint changes.
func (a *App) Reconfigure(cfg *config.Config) error {
	opts, err := cfg.Rule.AnalyzerOptions()
	if err != nil {
		return err
	}
	loader, err := parser.NewGrammarLoader(cfg.LanguageRegistry())
	if err != nil {
		return err
	}
	dirs, err := compileGlobs(cfg.Exclude.Dirs)
	if err != nil {
		return errors.AddContext(err, errors.CtxKey, "exclude.dirs")
	}
	files, err := compileGlobs(cfg.Exclude.Files)
	if err != nil {
		return errors.AddContext(err, errors.CtxKey, "exclude.files")
	}
	fp, err := fingerprint(cfg.Rule)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.cfg = cfg
	a.loader = loader
	a.parser = parser.NewParser(loader)
	a.analyzer = deps.New(opts)
	a.fingerprint = fp
	a.excludeDirs = dirs
	a.excludeFiles = files
	return nil
}

// CurrentConfig returns the configuration last passed to Reconfigure.
func (a *App) CurrentConfig() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

// SupportedExtensions lists the file extensions of every enabled grammar.
func (a *App) SupportedExtensions() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loader.SupportedExtensions()
}

func (a *App) snapshot() (*parser.Parser, *deps.Analyzer, string) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.parser, a.analyzer, a.fingerprint
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, "invalid exclude pattern "+p)
		}
		out = append(out, g)
	}
	return out, nil
}

func fingerprint(rule config.Rule) (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(rule); err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "encode rule options")
	}
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:8]), nil
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
