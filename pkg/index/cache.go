package index

import (
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Cache remembers the answer to every pattern asked since the last reset.
//
// It owns the result buffers handed out through views. Buffers are allocated
// once per distinct pattern and dropped together on Reset; nothing is freed
// individually. The owning Index guards the map; counters are atomic so
// lookups can run under a read lock.
type Cache struct {
	results map[string][]WordID
	hits    atomic.Int64
	misses  atomic.Int64
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		results: make(map[string][]WordID),
	}
}

// Get returns the stored result for pattern.
func (c *Cache) Get(pattern string) ([]WordID, bool) {
	ids, ok := c.results[pattern]
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return ids, ok
}

// Put stores ids under pattern. The cache takes ownership of ids.
func (c *Cache) Put(pattern string, ids []WordID) {
	c.results[pattern] = ids
}

// Len returns the number of cached patterns.
func (c *Cache) Len() int {
	return len(c.results)
}

// Reset drops every cached result.
func (c *Cache) Reset() {
	if len(c.results) > 0 {
		log.Debugf("Dropping %d cached patterns", len(c.results))
	}
	c.results = make(map[string][]WordID)
	c.hits.Store(0)
	c.misses.Store(0)
}

// each calls fn for every cached result buffer.
func (c *Cache) each(fn func(ids []WordID)) {
	for _, ids := range c.results {
		fn(ids)
	}
}

// Stats reports cache size and hit counters.
func (c *Cache) Stats() map[string]int {
	return map[string]int{
		"cacheEntries": len(c.results),
		"cacheHits":    int(c.hits.Load()),
		"cacheMisses":  int(c.misses.Load()),
	}
}
