package app

import (
	"hookdeps/internal/engine/deps"
	"hookdeps/internal/shared/observability"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheKey struct {
	path        string
	hash        string
	fingerprint string
}

// resultCache holds the diagnostics of recently linted file contents.
type resultCache struct {
	entries *lru.Cache[cacheKey, []deps.Diagnostic]
}

func newResultCache(size int) (*resultCache, error) {
	if size <= 0 {
		size = 1
	}
	entries, err := lru.New[cacheKey, []deps.Diagnostic](size)
	if err != nil {
		return nil, err
	}
	return &resultCache{entries: entries}, nil
}

func (c *resultCache) get(key cacheKey) ([]deps.Diagnostic, bool) {
	return c.entries.Get(key)
}

func (c *resultCache) put(key cacheKey, diags []deps.Diagnostic) {
	c.entries.Add(key, diags)
	observability.CacheEntries.Set(float64(c.entries.Len()))
}

func (c *resultCache) len() int {
	return c.entries.Len()
}
