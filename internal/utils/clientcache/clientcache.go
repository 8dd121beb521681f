// Package clientcache shares store clients across cache adapters so that two
// adapters pointed at the same URL reuse one connection pool.
package clientcache

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache is a type-safe client registry keyed by connection string. The
// factory runs at most once per key, even under concurrent lookups.
type Cache[T any] struct {
	clients sync.Map
	group   singleflight.Group
}

// NewCache creates an empty client registry
func NewCache[T any]() *Cache[T] {
	return &Cache[T]{}
}

// GetOrCreate returns the client registered for key, dialing a new one with
// factory if none exists yet.
func (c *Cache[T]) GetOrCreate(key string, factory func() (T, error)) (T, error) {
	if cached, ok := c.clients.Load(key); ok {
		return cached.(T), nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check: another caller may have finished dialing while we
		// waited on the singleflight slot.
		if cached, ok := c.clients.Load(key); ok {
			return cached.(T), nil
		}

		client, err := factory()
		if err != nil {
			var zero T
			return zero, err
		}
		c.clients.Store(key, client)
		return client, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Delete drops the client registered for key. The caller owns closing it.
func (c *Cache[T]) Delete(key string) {
	c.clients.Delete(key)
}
