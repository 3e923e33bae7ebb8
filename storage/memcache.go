// storage/memcache.go - volatile in-memory cache tier
package storage

import (
	"sync"
	"time"
)

// cacheEntry is one cached value. A zero expiresAt means no TTL.
type cacheEntry struct {
	value     any
	expiresAt time.Time
}

// MemCache is the volatile tier: process-lifetime, never persisted, empty on
// every fresh start. Expired entries are evicted lazily on read; there is no
// background sweeper.
type MemCache struct {
	mu   sync.Mutex // plain Mutex: Get mutates on lazy eviction
	data map[string]cacheEntry
	now  func() time.Time
}

func NewMemCache() *MemCache {
	return &MemCache{
		data: make(map[string]cacheEntry),
		now:  time.Now,
	}
}

// Set stores value under key. A ttl <= 0 means the entry never expires via
// TTL (it still vanishes with the process).
func (c *MemCache) Set(key string, value any, ttl time.Duration) {
	entry := cacheEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.data[key] = entry
	c.mu.Unlock()
}

// Get returns the cached value if present and not expired. An expired entry
// is evicted and reported as absent.
func (c *MemCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.data[key]
	if !ok {
		return nil, false
	}
	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		delete(c.data, key)
		return nil, false
	}
	return entry.value, true
}

// Remove evicts one entry.
func (c *MemCache) Remove(key string) {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
}

// Clear evicts everything.
func (c *MemCache) Clear() {
	c.mu.Lock()
	c.data = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Len counts entries, including expired ones not yet evicted.
func (c *MemCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}
