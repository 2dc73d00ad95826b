package filesig

import (
	"slices"
	"sync"
	"time"
)

// ============================================================================
// Cache Interface
// ============================================================================

// Cache stores identification results keyed by source fingerprint.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves the formats stored under key.
	// Returns the formats and true if found, nil and false otherwise.
	Get(key string) ([]Format, bool)

	// Set stores formats under key with the given TTL.
	// A TTL of 0 means no expiration.
	Set(key string, formats []Format, ttl time.Duration)

	// Delete removes a key from the cache.
	Delete(key string)

	// Clear removes all entries from the cache.
	Clear()
}

// CacheStats provides statistics about cache usage.
// Implementations may optionally support this interface.
type CacheStats interface {
	// Stats returns cache statistics.
	Stats() CacheStatistics
}

// CacheStatistics contains cache performance metrics.
type CacheStatistics struct {
	Hits    int64
	Misses  int64
	Size    int64
	HitRate float64
}

// ============================================================================
// In-Memory Cache Implementation
// ============================================================================

type cacheEntry struct {
	formats    []Format
	expiration time.Time
	hasExpiry  bool
}

// MemoryCache is an in-memory Cache with TTL-based expiration.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	hits    int64
	misses  int64
	now     func() time.Time
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*cacheEntry),
		now:     time.Now,
	}
}

// Get retrieves a copy of the formats stored under key.
func (c *MemoryCache) Get(key string) ([]Format, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		c.misses++
		return nil, false
	}
	if entry.hasExpiry && c.now().After(entry.expiration) {
		delete(c.entries, key)
		c.misses++
		return nil, false
	}

	c.hits++
	return slices.Clone(entry.formats), true
}

// Set stores a copy of formats under key.
func (c *MemoryCache) Set(key string, formats []Format, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &cacheEntry{formats: slices.Clone(formats)}
	if entry.formats == nil {
		entry.formats = []Format{}
	}
	if ttl > 0 {
		entry.expiration = c.now().Add(ttl)
		entry.hasExpiry = true
	}
	c.entries[key] = entry
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes all values from the cache.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// Stats returns cache statistics.
func (c *MemoryCache) Stats() CacheStatistics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.hits + c.misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return CacheStatistics{
		Hits:    c.hits,
		Misses:  c.misses,
		Size:    int64(len(c.entries)),
		HitRate: hitRate,
	}
}

// Cleanup removes expired entries from the cache.
// Call this periodically to prevent memory leaks from expired entries.
func (c *MemoryCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.entries {
		if entry.hasExpiry && now.After(entry.expiration) {
			delete(c.entries, key)
		}
	}
}

var (
	_ Cache      = (*MemoryCache)(nil)
	_ CacheStats = (*MemoryCache)(nil)
)
