package cache

import (
	"context"
	"sync"
	"time"

	"github.com/alkarama/hub/internal/domain"
)

const defaultCleanupInterval = time.Minute

// cacheItem represents a single item in the cache with expiration.
// A zero Expiration never expires.
type cacheItem struct {
	Value      []byte
	Expiration time.Time
}

func (i cacheItem) expired(now time.Time) bool {
	return !i.Expiration.IsZero() && now.After(i.Expiration)
}

// MemoryCache is a thread-safe in-memory cache with TTL support
type MemoryCache struct {
	data     map[string]cacheItem
	mutex    sync.RWMutex
	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryCache creates a new in-memory cache whose janitor removes
// expired entries every cleanupInterval (one minute when <= 0)
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = defaultCleanupInterval
	}

	cache := &MemoryCache{
		data: make(map[string]cacheItem),
		stop: make(chan struct{}),
	}

	go cache.cleanupExpired(cleanupInterval)

	return cache
}

// Get retrieves a copy of the value stored under key
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists || item.expired(time.Now()) {
		return nil, domain.ErrCacheMiss
	}

	return append([]byte(nil), item.Value...), nil
}

// Set stores a copy of value. ttl <= 0 keeps the entry until it is deleted.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	item := cacheItem{Value: append([]byte(nil), value...)}
	if ttl > 0 {
		item.Expiration = time.Now().Add(ttl)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data[key] = item

	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Exists checks if a key exists in the cache and is not expired
func (c *MemoryCache) Exists(_ context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	return exists && !item.expired(time.Now()), nil
}

// cleanupExpired removes expired entries until Close is called
func (c *MemoryCache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.mutex.Lock()
			for key, item := range c.data {
				if item.expired(now) {
					delete(c.data, key)
				}
			}
			c.mutex.Unlock()
		}
	}
}

// Size returns the current number of items in the cache, expired ones included
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
}

// Close stops the janitor goroutine. Safe to call multiple times.
func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}
