package embedding

import "sync"

// Cache is a concurrency-safe in-memory cache of embedding vectors keyed
// by the exact text that produced them. Entries never expire; the cache
// lives as long as the process and is bounded in practice by the chunk
// text cap applied upstream.
type Cache struct {
	mu      sync.RWMutex
	vectors map[string][]float32
}

// NewCache creates an empty embedding cache.
func NewCache() *Cache {
	return &Cache{vectors: make(map[string][]float32)}
}

// Get returns the cached vector for text, or nil if absent.
func (c *Cache) Get(text string) []float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vectors[text]
}

// Put stores a vector for text. Nil vectors are ignored so a cache miss
// stays distinguishable from a cached empty result.
func (c *Cache) Put(text string, vector []float32) {
	if vector == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vectors[text] = vector
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vectors)
}

// Clear removes all cached entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vectors = make(map[string][]float32)
}
