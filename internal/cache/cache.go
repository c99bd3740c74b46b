package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// ResultCache memoizes ranked results for a short TTL window. Implementations
// must be safe for concurrent use by in-flight requests. Values round-trip
// through JSON so the Redis and in-process backends behave identically.
type ResultCache interface {
	// Get unmarshals the cached value for key into dest and reports whether
	// a live entry was found.
	Get(ctx context.Context, key string, dest any) bool

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value any, ttl time.Duration)

	// Invalidate drops every entry whose key starts with prefix.
	Invalidate(ctx context.Context, prefix string)
}

// NopCache satisfies ResultCache and never stores anything. Useful for
// tests that assert on recomputation.
type NopCache struct{}

func (NopCache) Get(context.Context, string, any) bool          { return false }
func (NopCache) Set(context.Context, string, any, time.Duration) {}
func (NopCache) Invalidate(context.Context, string)             {}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache is a mutex-guarded in-process ResultCache. Expired entries are
// dropped lazily on read and whenever a write lands.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache returns an empty in-process cache using wall-clock time.
func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithClock(time.Now)
}

// NewMemoryCacheWithClock injects the time source, so tests can advance a
// fake clock past the TTL deterministically.
func NewMemoryCacheWithClock(now func() time.Time) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string, dest any) bool {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return false
	}

	return json.Unmarshal(entry.data, dest) == nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Piggyback a sweep of expired entries on writes so the map cannot grow
	// without bound between requests.
	now := c.now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}

	c.entries[key] = memoryEntry{data: data, expiresAt: now.Add(ttl)}
}

func (c *MemoryCache) Invalidate(_ context.Context, prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}
