package app

import (
	"hookdeps/internal/core/errors"
	"hookdeps/internal/shared/util"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
)

// Discover expands paths into the sorted list of lintable files. A path
// naming a file is taken as is when its extension is supported; directories
// are walked, skipping excluded directory and file names.
func (a *App) Discover(paths []string) ([]string, error) {
	a.mu.RLock()
	p := a.parser
	dirGlobs, fileGlobs := a.excludeDirs, a.excludeFiles
	a.mu.RUnlock()

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "lint path not found"), errors.CtxPath, root)
			}
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "stat lint path"), errors.CtxPath, root)
		}
		if !info.IsDir() {
			if p.Supports(root) {
				add(root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			base := filepath.Base(path)
			if d.IsDir() {
				if path != root && matchAny(dirGlobs, base) {
					return filepath.SkipDir
				}
				return nil
			}
			if !p.Supports(path) {
				return nil
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			if matchAny(fileGlobs, base) || matchAny(fileGlobs, util.NormalizePatternPath(rel)) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "walk lint path"), errors.CtxPath, root)
		}
	}

	sort.Strings(files)
	return files, nil
}

// Excluded reports whether a single path would be skipped by Discover.
func (a *App) Excluded(path string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if !a.parser.Supports(path) || matchAny(a.excludeFiles, filepath.Base(path)) {
		return true
	}
	for dir := filepath.Dir(path); ; {
		if matchAny(a.excludeDirs, filepath.Base(dir)) {
			return true
		}
		next := filepath.Dir(dir)
		if next == dir {
			return false
		}
		dir = next
	}
}

func matchAny(globs []glob.Glob, s string) bool {
	for _, g := range globs {
		if g.Match(s) {
			return true
		}
	}
	return false
}
