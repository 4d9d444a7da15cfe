package utils

import (
	"sync"
	"time"
)

// Cache is a small in-process cache holding one value per key with a TTL.
// Quote lookups use it to avoid hammering the broker API between refreshes.
type Cache[T any] struct {
	mutex   sync.RWMutex
	entries map[string]cacheEntry[T]
}

type cacheEntry[T any] struct {
	value      T
	expiration time.Time
}

// NewCache initializes an empty cache.
func NewCache[T any]() *Cache[T] {
	return &Cache[T]{entries: map[string]cacheEntry[T]{}}
}

// Set stores a value under key with an expiration time.
func (c *Cache[T]) Set(key string, value T, duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = cacheEntry[T]{
		value:      value,
		expiration: time.Now().Add(duration),
	}
}

// Get retrieves the cached value for key if it has not expired.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiration) {
		var zero T
		return zero, false
	}
	return entry.value, true
}

// Clear removes all cached values.
func (c *Cache[T]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = map[string]cacheEntry[T]{}
}
