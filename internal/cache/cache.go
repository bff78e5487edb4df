package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
)

// Cache is a concurrency-safe memo table. Entries never expire: it is meant
// for results of pure functions over a single batch.
type Cache[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

func New[V any]() *Cache[V] {
	return &Cache[V]{
		items: make(map[string]V),
	}
}

func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = value
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	return item, exists
}

// GetOrCompute returns the cached value for key, computing and storing it on a miss.
// The second result reports whether the value came from the cache.
func (c *Cache[V]) GetOrCompute(key string, compute func() V) (V, bool) {
	if v, ok := c.Get(key); ok {
		return v, true
	}
	v := compute()
	c.Set(key, v)
	return v, false
}

// GenerateKey hashes title, content and the numeric limits that shape the result.
func GenerateKey(title, content string, limits ...int) string {
	h := sha256.New()
	h.Write([]byte(title))
	h.Write([]byte{0})
	h.Write([]byte(content))
	for _, l := range limits {
		h.Write([]byte{0})
		h.Write([]byte(strconv.Itoa(l)))
	}
	return hex.EncodeToString(h.Sum(nil))
}
