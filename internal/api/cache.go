package api

import (
	"sync"

	"github.com/updatelens/updatelens/pkg/metrics"
)

// ResultCache is a thread-safe LRU cache of metric results keyed by metric
// and canonical query. The dataset never changes once loaded, so entries
// never go stale.
type ResultCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*metrics.Result
	order   []string // oldest first
}

// NewResultCache creates a cache with the given maximum number of entries.
// If maxSize <= 0, it defaults to 128.
func NewResultCache(maxSize int) *ResultCache {
	if maxSize <= 0 {
		maxSize = 128
	}
	return &ResultCache{
		maxSize: maxSize,
		entries: make(map[string]*metrics.Result),
	}
}

// Get returns the cached result for key, or nil.
func (c *ResultCache) Get(key string) *metrics.Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, ok := c.entries[key]
	if !ok {
		return nil
	}
	c.moveToEnd(key)
	return res
}

// Put stores a result, evicting the least recently used entry when full.
func (c *ResultCache) Put(key string, res *metrics.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = res
		c.moveToEnd(key)
		return
	}

	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = res
	c.order = append(c.order, key)
}

// Len returns the number of cached results.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ResultCache) moveToEnd(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, key)
			return
		}
	}
}
