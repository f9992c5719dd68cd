package cache

import (
	"sync"
	"time"
)

// item stores a cached value and its absolute expiration timestamp.
type item[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a map-backed cache where every entry shares one TTL. It is
// goroutine-safe; handlers hit it from concurrent requests. Expired entries
// are dropped lazily on read or via PurgeExpired.
type TTLCache[K comparable, V any] struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[K]item[V]
}

// now is a small indirection to allow test stubbing if needed.
var now = time.Now

// New constructs a TTLCache. If ttl <= 0, entries never expire.
func New[K comparable, V any](ttl time.Duration) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		ttl:   ttl,
		items: make(map[K]item[V]),
	}
}

// Get returns the value and whether it was present and not expired.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero V
	it, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if !it.expiresAt.IsZero() && now().After(it.expiresAt) {
		return zero, false
	}
	return it.value, true
}

// Set stores the value under key, restarting its TTL.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var exp time.Time
	if c.ttl > 0 {
		exp = now().Add(c.ttl)
	}
	c.items[key] = item[V]{value: value, expiresAt: exp}
}

// Delete removes a key if present.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Len returns the number of non-expired items currently stored.
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	count := 0
	for _, it := range c.items {
		if it.expiresAt.IsZero() || !now().After(it.expiresAt) {
			count++
		}
	}
	return count
}

// Clear removes all entries.
func (c *TTLCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]item[V])
}

// PurgeExpired scans and removes expired entries.
func (c *TTLCache[K, V]) PurgeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, it := range c.items {
		if !it.expiresAt.IsZero() && now().After(it.expiresAt) {
			delete(c.items, key)
		}
	}
}
