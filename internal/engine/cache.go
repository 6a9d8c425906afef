// cache.go provides an in-memory cache for rendered page bodies.
// This is the L1 cache: it skips the block rendering fold on repeated
// requests. Bodies are keyed by page ID and version, so saving a page
// (which bumps its version) automatically produces a cache miss.
package engine

import (
	"html/template"
	"log/slog"
	"sync"
)

// cacheKey uniquely identifies a rendered page version.
type cacheKey struct {
	id      string // UUID as string
	version int64
}

// bodyCache is a concurrency-safe in-memory cache of rendered bodies.
type bodyCache struct {
	mu      sync.RWMutex
	entries map[cacheKey]template.HTML
}

// newBodyCache creates an empty body cache.
func newBodyCache() *bodyCache {
	return &bodyCache{
		entries: make(map[cacheKey]template.HTML),
	}
}

// get retrieves a rendered body from cache.
func (c *bodyCache) get(id string, version int64) (template.HTML, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	body, ok := c.entries[cacheKey{id: id, version: version}]
	return body, ok
}

// put stores a rendered body, dropping older versions of the same page.
func (c *bodyCache) put(id string, version int64, body template.HTML) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.id == id && k.version != version {
			delete(c.entries, k)
		}
	}
	c.entries[cacheKey{id: id, version: version}] = body
	slog.Debug("page body cached", "id", id, "version", version, "size", len(c.entries))
}

// invalidate removes all cached versions for a given page ID.
func (c *bodyCache) invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.id == id {
			delete(c.entries, k)
		}
	}
	slog.Debug("page body cache invalidated", "id", id)
}

// invalidateAll clears the entire cache. Used when media changes, since
// resolved image URLs are baked into every body.
func (c *bodyCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]template.HTML)
	slog.Debug("page body cache fully cleared")
}
