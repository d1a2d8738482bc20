package videoshelf

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/videoshelf/content"
)

// NodeCache is an in-memory cache of query results with TTL. It answers the
// same queries as the Store it wraps.
type NodeCache struct {
	mu      sync.RWMutex
	entries map[Query]cacheEntry
	ttl     time.Duration
	store   NodeSource
}

type cacheEntry struct {
	nodes   []content.Node
	fetched time.Time
}

// NewNodeCache creates a NodeCache backed by the given source.
func NewNodeCache(s NodeSource, ttl time.Duration) *NodeCache {
	return &NodeCache{store: s, ttl: ttl, entries: make(map[Query]cacheEntry)}
}

func (c *NodeCache) lookup(q Query) ([]content.Node, bool) {
	e, ok := c.entries[q]
	if !ok || time.Since(e.fetched) >= c.ttl {
		return nil, false
	}
	return e.nodes, true
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *NodeCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[Query]cacheEntry)
	c.mu.Unlock()
}

// Query returns cached nodes for q, loading them from the store when the
// entry is missing or stale. It tries a read lock first and only takes the
// write lock for a reload.
func (c *NodeCache) Query(ctx context.Context, q Query) ([]content.Node, error) {
	c.mu.RLock()
	if nodes, ok := c.lookup(q); ok {
		c.mu.RUnlock()
		return nodes, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if nodes, ok := c.lookup(q); ok {
		return nodes, nil
	}
	nodes, err := c.store.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	c.entries[q] = cacheEntry{nodes: nodes, fetched: time.Now()}
	return nodes, nil
}
