package tenant

import (
	"context"
	"sync"
	"time"
)

// Cache stores resolved tenants keyed by identifier so hot tenants skip the
// provider lookup. Implementations must be safe for concurrent use. A cache
// only ever shortcuts the lookup; it is never a substitute for the
// per-operation tenant predicate in the data layer.
type Cache interface {
	Get(ctx context.Context, key string) (*Tenant, bool)
	Set(ctx context.Context, key string, t *Tenant, ttl time.Duration)

	// Delete evicts a tenant. Must be called when a tenant's status
	// changes so stale Active entries cannot outlive a suspension.
	Delete(ctx context.Context, key string)

	Close() error
}

// DefaultCacheSize caps the in-memory cache entry count.
const DefaultCacheSize = 1000

type memoryEntry struct {
	tenant    *Tenant
	expiresAt time.Time
}

// memoryCache is a TTL-bound LRU map. Eviction order is maintained as a
// slice of keys from least to most recently used.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	order   []string
	maxSize int
	stop    chan struct{}
	done    chan struct{}
	closed  bool
}

// NewMemoryCache creates an in-memory cache with background expiry sweeps.
func NewMemoryCache() Cache {
	return NewMemoryCacheWithSize(DefaultCacheSize)
}

// NewMemoryCacheWithSize creates an in-memory cache capped at maxSize entries.
func NewMemoryCacheWithSize(maxSize int) Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	c := &memoryCache{
		entries: make(map[string]memoryEntry),
		maxSize: maxSize,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go c.sweep()
	return c
}

func (c *memoryCache) Get(_ context.Context, key string) (*Tenant, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		c.dequeue(key)
		return nil, false
	}

	c.touch(key)
	return entry.tenant, true
}

func (c *memoryCache) Set(_ context.Context, key string, t *Tenant, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = memoryEntry{tenant: t, expiresAt: time.Now().Add(ttl)}
	c.touch(key)
}

func (c *memoryCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	c.dequeue(key)
}

func (c *memoryCache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	<-c.done
	return nil
}

func (c *memoryCache) sweep() {
	defer close(c.done)
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if now.After(entry.expiresAt) {
					delete(c.entries, key)
					c.dequeue(key)
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}

// touch moves key to the most-recently-used end. Caller holds the lock.
func (c *memoryCache) touch(key string) {
	c.dequeue(key)
	c.order = append(c.order, key)
}

// dequeue removes key from the order slice. Caller holds the lock.
func (c *memoryCache) dequeue(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// nopCache disables caching; every request hits the provider.
type nopCache struct{}

// NewNopCache returns a cache that never stores anything.
func NewNopCache() Cache { return nopCache{} }

func (nopCache) Get(context.Context, string) (*Tenant, bool)         { return nil, false }
func (nopCache) Set(context.Context, string, *Tenant, time.Duration) {}
func (nopCache) Delete(context.Context, string)                      {}
func (nopCache) Close() error                                        { return nil }
